package reporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mata-elang-stable/flowlog-report/internal/config"
	"github.com/mata-elang-stable/flowlog-report/internal/logger"
	"github.com/mata-elang-stable/flowlog-report/internal/schema"
)

type HTTPReporter struct {
	apiBaseURL        string
	apiPostSummaryURL string
	httpMaxTimeout    time.Duration
	httpMaxRetries    int
}

var log = logger.GetLogger()

func NewHTTPReporter(config *config.Config) (*HTTPReporter, error) {
	postURL, err := url.JoinPath(config.ReportApiUrl, config.ReportPostSummaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to join report API path %s: %w", config.ReportApiUrl, err)
	}

	return &HTTPReporter{
		apiBaseURL:        config.ReportApiUrl,
		apiPostSummaryURL: postURL,
		httpMaxTimeout:    time.Duration(config.HTTPTimeoutSeconds) * time.Second,
		httpMaxRetries:    max(config.HTTPMaxRetries, 1),
	}, nil
}

func (r *HTTPReporter) Name() string {
	return "http " + r.apiPostSummaryURL
}

// Publish posts the summary as JSON, retrying up to the configured number
// of attempts.
func (r *HTTPReporter) Publish(ctx context.Context, summary *schema.Summary) error {
	marshaled, err := summary.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	client := &http.Client{
		Timeout: r.httpMaxTimeout,
	}

	for i := 0; i < r.httpMaxRetries; i++ {
		err = r.makeRequest(ctx, client, marshaled)
		if err == nil {
			return nil
		}

		log.WithFields(logger.Fields{
			"url":     r.apiPostSummaryURL,
			"attempt": i + 1,
			"error":   err,
		}).Warnln("Failed to post summary.")

		if ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("failed to post summary to %s after %d attempts: %w", r.apiPostSummaryURL, r.httpMaxRetries, err)
}

func (r *HTTPReporter) makeRequest(ctx context.Context, client *http.Client, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiPostSummaryURL, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		reason, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		log.Debugf("Reason: %s", reason)
		return fmt.Errorf("unexpected status code %d", res.StatusCode)
	}

	return nil
}
