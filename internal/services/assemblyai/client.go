// Package assemblyai implements transcription.Provider against the AssemblyAI
// REST API: upload the audio, create a transcript job, then poll it.
package assemblyai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"intellicoach/internal/services"
	"intellicoach/internal/transcription"
)

const (
	// DefaultBaseURL is the public AssemblyAI endpoint.
	DefaultBaseURL = "https://api.assemblyai.com"

	defaultHTTPTimeout  = 60 * time.Second
	defaultPollInterval = 3 * time.Second
	defaultMaxWait      = 10 * time.Minute
)

// Config captures the runtime settings for the AssemblyAI client.
type Config struct {
	APIKey         string
	BaseURL        string
	Language       string
	TimeoutSeconds int
}

// Client talks to AssemblyAI.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	pollInterval time.Duration
	maxWait      time.Duration
	sleeper      func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPollInterval overrides the delay between job status requests.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithSleeper overrides how poll waits are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient validates cfg and constructs a client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Language = strings.TrimSpace(cfg.Language)
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcription", "assemblyai", "api key required", nil)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	maxWait := defaultMaxWait
	if cfg.TimeoutSeconds > 0 {
		maxWait = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		pollInterval: defaultPollInterval,
		maxWait:      maxWait,
		sleeper:      sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "assemblyai"
}

// Transcribe uploads mediaPath and waits for the transcript job to finish.
// A job that fails reports ResponseError with the provider's detail so the
// caller can tell "no spoken audio" apart from other failures.
func (c *Client) Transcribe(ctx context.Context, mediaPath string) (transcription.Response, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return transcription.Response{}, services.Wrap(services.ErrValidation, "transcription", "assemblyai", "media path required", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, c.maxWait)
	defer cancel()

	uploadURL, err := c.upload(ctx, mediaPath)
	if err != nil {
		return transcription.Response{}, classify(err, "upload")
	}
	job, err := c.createTranscript(ctx, uploadURL)
	if err != nil {
		return transcription.Response{}, classify(err, "create transcript")
	}
	job, err = c.wait(ctx, job)
	if err != nil {
		return transcription.Response{}, classify(err, "poll transcript")
	}
	if job.Status == statusError {
		return transcription.Response{Status: transcription.ResponseError, ErrorDetail: strings.TrimSpace(job.Error)}, nil
	}
	return transcription.Response{Text: job.Text, Status: transcription.ResponseOK}, nil
}

func (c *Client) wait(ctx context.Context, job transcriptJob) (transcriptJob, error) {
	for {
		switch job.Status {
		case statusCompleted, statusError:
			return job, nil
		}
		if err := c.sleeper(ctx, c.pollInterval); err != nil {
			return job, err
		}
		next, err := c.getTranscript(ctx, job.ID)
		if err != nil {
			return job, err
		}
		job = next
	}
}

func classify(err error, op string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "transcription", "assemblyai", op+" timed out", err)
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "transcription", "assemblyai", "credentials rejected", err)
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			return services.Wrap(services.ErrExternalTool, "transcription", "assemblyai", op+" rejected", err)
		}
	}
	return services.Wrap(services.ErrTransient, "transcription", "assemblyai", op+" failed", err)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
