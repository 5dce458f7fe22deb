// Package pyannote implements the diarization provider against the
// pyannote.ai cloud API: presigned media upload, job submission, and
// poll-until-terminal or webhook delivery.
package pyannote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skillsenselab/speakertime/diarization"
	"github.com/skillsenselab/speakertime/logger"
	"github.com/skillsenselab/speakertime/resilience"
	"github.com/skillsenselab/speakertime/util"
)

const (
	// ProviderName is the registered name for the pyannote provider.
	ProviderName = "pyannote"

	defaultBaseURL         = "https://api.pyannote.ai/v1"
	defaultTimeout         = 30 * time.Second
	defaultPollInterval    = time.Second
	defaultMaxPollAttempts = 120
)

// Config holds configuration for the pyannote diarization provider.
type Config struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Provider implements diarization.Provider using the pyannote.ai cloud API.
type Provider struct {
	cfg    Config
	client *http.Client
	retry  resilience.RetryConfig
	log    *logger.Logger
}

// NewProvider creates a new pyannote diarization provider.
func NewProvider(cfg Config, log *logger.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPollAttempts == 0 {
		cfg.MaxPollAttempts = defaultMaxPollAttempts
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = 250 * time.Millisecond
	log = log.WithComponent("pyannote")
	log.Debug("provider configured", logger.Fields(
		"base_url", cfg.BaseURL,
		"api_key", util.MaskSecret(cfg.APIKey, 4),
	))
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		retry:  retry,
		log:    log,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the pyannote API accepts the configured key.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/test", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Diarize uploads audio, submits a job, and polls until the job is terminal.
func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	jobID, err := p.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.Wait(ctx, jobID)
}

// Submit uploads the audio batch and starts a diarization job. When
// req.WebhookURL is set, the finished job is pushed there and the caller
// must not poll; otherwise pass the returned job id to Wait.
func (p *Provider) Submit(ctx context.Context, req diarization.Request) (string, error) {
	if len(req.Audio) == 0 {
		return "", fmt.Errorf("empty audio batch")
	}

	mediaURL := fmt.Sprintf("media://audio-%d", time.Now().UnixMilli())

	presigned, err := p.createMediaInput(ctx, mediaURL)
	if err != nil {
		return "", fmt.Errorf("create media input: %w", err)
	}
	if err := p.uploadAudio(ctx, presigned, req.Audio); err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}

	jobID, err := p.startJob(ctx, mediaURL, req)
	if err != nil {
		return "", fmt.Errorf("start diarization job: %w", err)
	}

	p.log.Info("diarization job submitted", logger.Fields(
		logger.FieldJobID, jobID,
		"bytes", len(req.Audio),
		"num_speakers", req.NumSpeakers,
	))
	return jobID, nil
}

// Wait polls the job until it reaches a terminal status or the attempt
// budget is exhausted. A failed or canceled job, or a poll timeout, is an
// error; segments are only returned for a succeeded job.
func (p *Provider) Wait(ctx context.Context, jobID string) (*diarization.Response, error) {
	start := time.Now()
	for attempt := 0; attempt < p.cfg.MaxPollAttempts; attempt++ {
		job, err := p.getJob(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.log.Warn("poll attempt failed", logger.Fields(
				logger.FieldJobID, jobID,
				"attempt", attempt+1,
				logger.FieldError, err.Error(),
			))
		} else {
			switch job.Status {
			case diarization.StatusSucceeded:
				if job.Output == nil {
					return nil, fmt.Errorf("job %s succeeded without output", jobID)
				}
				p.log.Info("diarization job succeeded",
					logger.Fields(logger.FieldJobID, jobID),
					logger.DurationFields("wait", time.Since(start)))
				return &diarization.Response{
					JobID:       jobID,
					Segments:    job.Output.Diarization,
					NumSpeakers: diarization.DistinctSpeakers(job.Output.Diarization),
				}, nil
			case diarization.StatusFailed, diarization.StatusCanceled:
				return nil, fmt.Errorf("job %s terminated with status %q", jobID, job.Status)
			}
		}

		timer := time.NewTimer(p.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("job %s polling timed out after %d attempts", jobID, p.cfg.MaxPollAttempts)
}

// --- pyannote API calls ---

type mediaInputRequest struct {
	URL string `json:"url"`
}

type mediaInputResponse struct {
	URL string `json:"url"`
}

type jobRequest struct {
	URL         string `json:"url"`
	NumSpeakers int    `json:"numSpeakers,omitempty"`
	Webhook     string `json:"webhook,omitempty"`
}

type jobResponse struct {
	JobID  string     `json:"jobId"`
	Status string     `json:"status"`
	Output *jobOutput `json:"output,omitempty"`
}

type jobOutput struct {
	Diarization []diarization.Segment `json:"diarization"`
}

func (p *Provider) createMediaInput(ctx context.Context, mediaURL string) (string, error) {
	return resilience.Retry(ctx, p.retry, func() (string, error) {
		var out mediaInputResponse
		if err := p.postJSON(ctx, "/media/input", mediaInputRequest{URL: mediaURL}, &out); err != nil {
			return "", err
		}
		if out.URL == "" {
			return "", fmt.Errorf("no presigned url in response")
		}
		return out.URL, nil
	})
}

func (p *Provider) uploadAudio(ctx context.Context, presignedURL string, audio []byte) error {
	return resilience.RetryFunc(ctx, p.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, bytes.NewReader(audio))
		if err != nil {
			return err
		}
		req.ContentLength = int64(len(audio))
		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("upload status %d: %s", resp.StatusCode, string(body))
		}
		return nil
	})
}

func (p *Provider) startJob(ctx context.Context, mediaURL string, req diarization.Request) (string, error) {
	return resilience.Retry(ctx, p.retry, func() (string, error) {
		var out jobResponse
		body := jobRequest{URL: mediaURL, NumSpeakers: req.NumSpeakers, Webhook: req.WebhookURL}
		if err := p.postJSON(ctx, "/diarize", body, &out); err != nil {
			return "", err
		}
		if out.JobID == "" {
			return "", fmt.Errorf("no job id in response")
		}
		return out.JobID, nil
	})
}

func (p *Provider) getJob(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job status %d: %s", resp.StatusCode, string(body))
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job response: %w", err)
	}
	return &job, nil
}

func (p *Provider) postJSON(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s status %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
