package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/speakertime/diarization"
	"github.com/skillsenselab/speakertime/errors"
	"github.com/skillsenselab/speakertime/logger"
	"github.com/skillsenselab/speakertime/observability"
	"github.com/skillsenselab/speakertime/resolve"
	"github.com/skillsenselab/speakertime/server"
)

// Diarize submits the buffered recording as a diarization job. The response
// carries the job id; the resolved speakers become visible on the speakers
// route once the job finishes. Each job is committed exactly once: with a
// webhook URL configured the result arrives on the webhook route, otherwise
// a background collector polls the job to completion.
//
//	POST /api/diarize
func (h *Handlers) Diarize(c *gin.Context) {
	numSpeakers := h.session.AnchorCount()
	if numSpeakers == 0 && h.session.Strategy().Name() == resolve.StrategyProximity {
		server.RespondOK(c, gin.H{
			"success": false,
			"message": "No speakers added yet. Add speakers before diarizing.",
		})
		return
	}

	recording := h.buffer.Bytes()
	if len(recording) == 0 {
		server.RespondOK(c, gin.H{
			"success": false,
			"message": "No audio to process",
		})
		return
	}

	if !h.jobInFlight.CompareAndSwap(false, true) {
		server.RespondWithError(c, errors.Conflict("a diarization job is already running"))
		return
	}

	req := diarization.Request{
		Audio:       recording,
		NumSpeakers: numSpeakers,
		WebhookURL:  h.cfg.WebhookURL,
	}

	ctx, span := observability.StartSpan(c.Request.Context(), "diarize.submit")
	jobID, err := h.provider.Submit(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		span.End()
		h.jobInFlight.Store(false)
		server.RespondWithError(c, err)
		return
	}
	span.End()

	h.log.Info("diarization job submitted", logger.Fields(
		logger.FieldJobID, jobID,
		logger.FieldSpeakers, numSpeakers,
		"bytes", len(recording),
	))

	// One delivery path per job: with a webhook configured the backend
	// pushes the result and polling the same job would commit it twice.
	if h.cfg.WebhookURL == "" {
		go h.collectResult(jobID)
	}

	server.RespondAccepted(c, gin.H{
		"success": true,
		"jobId":   jobID,
	})
}

// collectResult waits for the job and commits its segments to the session.
// Detached from the request context: the job outlives the HTTP exchange.
func (h *Handlers) collectResult(jobID string) {
	defer h.jobInFlight.Store(false)

	ctx, span := observability.StartSpan(context.Background(), "diarize.collect")
	defer span.End()
	start := time.Now()

	resp, err := h.provider.Wait(ctx, jobID)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if h.metrics != nil {
			h.metrics.RecordJob(ctx, "failed", time.Since(start))
		}
		h.log.Error("diarization job failed",
			logger.Fields(logger.FieldJobID, jobID),
			logger.ErrorFields("wait", err))
		return
	}

	mapping := h.session.Submit(resp.Segments)
	if h.metrics != nil {
		h.metrics.RecordJob(ctx, "succeeded", time.Since(start))
		h.metrics.RecordSpeakers(ctx, resp.NumSpeakers)
	}
	h.log.Info("diarization result committed", logger.Fields(
		logger.FieldJobID, jobID,
		"segments", len(resp.Segments),
		"mapped", len(mapping),
	))
}
