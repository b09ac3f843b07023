// Package openaistt implements transcription.Provider on the OpenAI audio
// transcription endpoint (whisper-1 and compatible servers).
package openaistt

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"intellicoach/internal/services"
	"intellicoach/internal/transcription"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "whisper-1"

	defaultTimeout = 10 * time.Minute
)

// Config captures the runtime settings for the transcription client.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Language       string
	TimeoutSeconds int
	MaxRetries     int
}

// Client wraps the openai-go SDK.
type Client struct {
	cfg    Config
	client openai.Client
}

// NewClient validates cfg and constructs a client. Extra request options are
// appended after the configured ones.
func NewClient(cfg Config, opts ...option.RequestOption) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Language = strings.TrimSpace(cfg.Language)
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcription", "openai", "api key required", nil)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		clientOpts = append(clientOpts, option.WithMaxRetries(cfg.MaxRetries))
	}
	clientOpts = append(clientOpts, opts...)

	return &Client{cfg: cfg, client: openai.NewClient(clientOpts...)}, nil
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "openai"
}

// Transcribe uploads mediaPath and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, mediaPath string) (transcription.Response, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return transcription.Response{}, services.Wrap(services.ErrValidation, "transcription", "openai", "media path required", nil)
	}
	f, err := os.Open(mediaPath)
	if err != nil {
		return transcription.Response{}, services.Wrap(services.ErrNotFound, "transcription", "openai", "open media", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(c.cfg.Model),
	}
	if c.cfg.Language != "" {
		params.Language = openai.String(c.cfg.Language)
	}
	result, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return transcription.Response{}, classify(err)
	}
	return transcription.Response{Text: result.Text, Status: transcription.ResponseOK}, nil
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "transcription", "openai", "credentials rejected", err)
		case http.StatusBadRequest, http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
			return services.Wrap(services.ErrExternalTool, "transcription", "openai", "request rejected", err)
		}
	}
	return services.Wrap(services.ErrTransient, "transcription", "openai", "transcription failed", err)
}
