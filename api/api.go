package api

import (
	"context"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/speakertime/audio"
	"github.com/skillsenselab/speakertime/diarization"
	"github.com/skillsenselab/speakertime/logger"
	"github.com/skillsenselab/speakertime/observability"
	"github.com/skillsenselab/speakertime/resolve"
	"github.com/skillsenselab/speakertime/server/endpoint"
	"github.com/skillsenselab/speakertime/server/middleware"
)

// JobRunner is the diarization backend the handlers drive. Beyond the plain
// Provider contract it splits job submission from result delivery so the
// HTTP layer can answer with a job id immediately and collect the result in
// the background.
type JobRunner interface {
	diarization.Provider
	Submit(ctx context.Context, req diarization.Request) (string, error)
	Wait(ctx context.Context, jobID string) (*diarization.Response, error)
}

// Config tunes the HTTP handlers.
type Config struct {
	// DiarizePerMinute rate-limits job submissions per client. Zero
	// disables the limit.
	DiarizePerMinute int
	// WebhookURL, when set, is forwarded to the provider on submission so
	// results can also arrive via the webhook route.
	WebhookURL string
}

// Handlers owns the HTTP handlers and their collaborators.
type Handlers struct {
	session  *resolve.Session
	buffer   *audio.Buffer
	provider JobRunner
	metrics  *observability.Metrics
	cfg      Config
	log      *logger.Logger

	jobInFlight atomic.Bool
}

// NewHandlers wires the handler set. metrics may be nil when observability
// is disabled.
func NewHandlers(session *resolve.Session, buffer *audio.Buffer, provider JobRunner, metrics *observability.Metrics, cfg Config, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Handlers{
		session:  session,
		buffer:   buffer,
		provider: provider,
		metrics:  metrics,
		cfg:      cfg,
		log:      log.WithComponent("api"),
	}
}

// Register mounts all routes under /api.
func (h *Handlers) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.POST("/audio/add", h.AddAudio)
	api.POST("/webhook/diarization", h.Webhook)
	api.GET("/speakers", h.GetSpeakers)
	api.POST("/speakers/add", h.AddSpeaker)
	api.POST("/speakers/:id/name", h.RenameSpeaker)
	api.POST("/reset", h.Reset)

	diarize := api.Group("")
	if h.cfg.DiarizePerMinute > 0 {
		diarize.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: h.cfg.DiarizePerMinute,
		}))
	}
	diarize.POST("/diarize", h.Diarize)
}

// HealthChecker reports provider availability for the health endpoints.
func (h *Handlers) HealthChecker() endpoint.HealthChecker {
	return func(ctx context.Context) []endpoint.Check {
		check := endpoint.Check{
			Name:   h.provider.Name(),
			Status: endpoint.StatusHealthy,
		}
		if !h.provider.IsAvailable(ctx) {
			check.Status = endpoint.StatusUnhealthy
			check.Message = "diarization backend unreachable"
		}
		return []endpoint.Check{check}
	}
}
