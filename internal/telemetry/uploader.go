package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/triitium/ESP-ambient-logger/internal/metrics"
)

const defaultUploadTimeout = 10 * time.Second

// Doer is the slice of http.Client the uploader needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WithUploaderLogger sets the logger for the uploader
func WithUploaderLogger(logger *slog.Logger) func(*Uploader) {
	return func(u *Uploader) {
		u.logger = logger.With(slog.String("component", "uploader"))
	}
}

// WithClient sets the HTTP client used for uploads
func WithClient(client Doer) func(*Uploader) {
	return func(u *Uploader) {
		u.client = client
	}
}

// Uploader delivers smoothed readings to the remote collector. A failed
// send is dropped, never queued: the next cycle produces a fresher
// reading anyway.
type Uploader struct {
	url    string
	apiKey string

	client Doer
	logger *slog.Logger
}

// NewUploader creates an uploader posting to serverURL+endpoint.
func NewUploader(serverURL, endpoint, apiKey string, options ...func(*Uploader)) *Uploader {
	u := Uploader{
		url:    serverURL + endpoint,
		apiKey: apiKey,
		client: &http.Client{Timeout: defaultUploadTimeout},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&u)
	}

	return &u
}

// Send posts the reading as JSON. The caller has already checked that
// the link is up and the reading is fully defined. Any HTTP response
// counts as delivered; application-level status codes are logged, not
// retried. A transport failure is reported as an error and the reading
// is dropped.
func (u *Uploader) Send(ctx context.Context, r Reading) error {
	body, err := json.Marshal(payload{
		APIKey: u.apiKey,
		Content: content{
			Temperature: centi(r.Temperature),
			Humidity:    centi(r.Humidity),
			Pressure:    centi(r.Pressure),
		},
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request to %q: %w", u.url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		metrics.Uploads.WithLabelValues("transport_error").Inc()
		return fmt.Errorf("posting to %q: %w", u.url, err)
	}
	defer resp.Body.Close()

	metrics.Uploads.WithLabelValues("delivered").Inc()
	u.logger.Info("reading delivered", slog.Int("status", resp.StatusCode))
	return nil
}
