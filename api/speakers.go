package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/speakertime/errors"
	"github.com/skillsenselab/speakertime/server"
	"github.com/skillsenselab/speakertime/validation"
)

// AddSpeakerRequest registers a named anchor at a recording timecode.
type AddSpeakerRequest struct {
	Name     string   `json:"name" validate:"required"`
	Timecode *float64 `json:"timecode" validate:"required,gte=0"`
}

// RenameSpeakerRequest changes a resolved speaker's display name.
type RenameSpeakerRequest struct {
	Name string `json:"name" validate:"required"`
}

// GetSpeakers returns the resolved speakers with accumulated speaking time
// and the labeled timeline.
//
//	GET /api/speakers
func (h *Handlers) GetSpeakers(c *gin.Context) {
	server.RespondOK(c, h.session.Speakers())
}

// AddSpeaker registers an anchor: "this name is the speaker at this
// timecode".
//
//	POST /api/speakers/add
func (h *Handlers) AddSpeaker(c *gin.Context) {
	var req AddSpeakerRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	anchor, err := h.session.AddAnchor(req.Name, *req.Timecode)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, anchor)
}

// RenameSpeaker sets the display-name override for a resolved speaker.
//
//	POST /api/speakers/:id/name
func (h *Handlers) RenameSpeaker(c *gin.Context) {
	var req RenameSpeakerRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.session.Rename(id, req.Name); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{
		"success": true,
		"id":      id,
		"name":    req.Name,
	})
}

// Reset wipes the session and the audio buffer.
//
//	POST /api/reset
func (h *Handlers) Reset(c *gin.Context) {
	h.session.Reset()
	h.buffer.Reset()
	server.RespondOK(c, gin.H{"success": true})
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.InvalidInput("body", "request body is not valid JSON").WithCause(err)
	}
	return validation.Validate(req)
}
