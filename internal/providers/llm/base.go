package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/pkg/retry"
)

const defaultTimeout = 120 * time.Second

type baseProvider struct {
	client  *http.Client
	retrier *retry.Retrier
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(baseURL, apiKey, model string) baseProvider {
	return baseProvider{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		retrier: retry.NewDefaultRetrier(),
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// StatusError is a non-200 response from a provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// postJSON sends body and returns the 200 response payload. Rate limits,
// server errors and transport failures are retried; other statuses are not.
func (b *baseProvider) postJSON(ctx context.Context, path string, body any, headers map[string]string) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var data []byte
	err = b.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.KinUserAgent)

		resp, err := b.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(fmt.Errorf("request: %w", err))
			}
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
			if statusErr.retryable() {
				return statusErr
			}
			return retry.Permanent(statusErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
