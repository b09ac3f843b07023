package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	statusQueued     = "queued"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusError      = "error"
)

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code,omitempty"`
}

type transcriptJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	body := strings.Join(strings.Fields(e.Body), " ")
	if len(body) > 160 {
		body = body[:160] + "..."
	}
	return fmt.Sprintf("assemblyai request: http %d: %s", e.StatusCode, body)
}

func (c *Client) upload(ctx context.Context, mediaPath string) (string, error) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	var out uploadResponse
	if err := c.do(ctx, http.MethodPost, "/v2/upload", "application/octet-stream", f, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.UploadURL) == "" {
		return "", fmt.Errorf("assemblyai upload: empty upload_url")
	}
	return out.UploadURL, nil
}

func (c *Client) createTranscript(ctx context.Context, audioURL string) (transcriptJob, error) {
	encoded, err := json.Marshal(transcriptRequest{AudioURL: audioURL, LanguageCode: c.cfg.Language})
	if err != nil {
		return transcriptJob{}, fmt.Errorf("encode transcript request: %w", err)
	}
	var job transcriptJob
	if err := c.do(ctx, http.MethodPost, "/v2/transcript", "application/json", bytes.NewReader(encoded), &job); err != nil {
		return transcriptJob{}, err
	}
	if job.ID == "" {
		return transcriptJob{}, fmt.Errorf("assemblyai transcript: missing job id")
	}
	return job, nil
}

func (c *Client) getTranscript(ctx context.Context, id string) (transcriptJob, error) {
	var job transcriptJob
	if err := c.do(ctx, http.MethodGet, "/v2/transcript/"+id, "", nil, &job); err != nil {
		return transcriptJob{}, err
	}
	return job, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("assemblyai request: new request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("assemblyai request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &httpStatusError{StatusCode: resp.StatusCode, Body: string(payload)}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("assemblyai request: decode response: %w", err)
	}
	return nil
}
