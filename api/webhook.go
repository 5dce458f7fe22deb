package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/speakertime/diarization"
	"github.com/skillsenselab/speakertime/errors"
	"github.com/skillsenselab/speakertime/logger"
	"github.com/skillsenselab/speakertime/server"
)

// Webhook receives pushed job results from the diarization backend. Only a
// malformed body is an error; a payload for a non-succeeded job is
// acknowledged without committing anything, so the backend does not retry
// jobs that can never be committed.
//
//	POST /api/webhook/diarization
func (h *Handlers) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", "could not read webhook payload"))
		return
	}

	resp, err := diarization.ParseWebhook(body)
	if err != nil {
		if _, malformed := err.(*diarization.PayloadError); malformed {
			server.RespondWithError(c, errors.InvalidInput("body", "malformed webhook payload"))
			return
		}
		// The job terminated even though nothing is committed.
		h.jobInFlight.Store(false)
		h.log.WithError(err).Warn("webhook payload not committed")
		server.RespondOK(c, gin.H{"received": true})
		return
	}

	h.jobInFlight.Store(false)
	mapping := h.session.Submit(resp.Segments)
	h.log.Info("webhook result committed", logger.Fields(
		logger.FieldJobID, resp.JobID,
		"segments", len(resp.Segments),
		"mapped", len(mapping),
	))

	server.RespondOK(c, gin.H{"received": true})
}
