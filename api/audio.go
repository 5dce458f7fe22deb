package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/speakertime/errors"
	"github.com/skillsenselab/speakertime/server"
)

// AddAudio appends the raw request body to the recording buffer.
//
//	POST /api/audio/add
func (h *Handlers) AddAudio(c *gin.Context) {
	chunk, err := io.ReadAll(c.Request.Body)
	if err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", "could not read audio chunk"))
		return
	}

	h.buffer.Append(chunk)
	if h.metrics != nil {
		h.metrics.RecordChunk(c.Request.Context(), len(chunk))
	}

	server.RespondOK(c, gin.H{
		"success":    true,
		"bufferSize": h.buffer.Len(),
	})
}
