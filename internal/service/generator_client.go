package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"printcraft-service/internal/util"

	"go.uber.org/zap"
)

// ErrModelWarming is returned while the upstream image model is still
// loading; callers should suggest a retry in 20-30 seconds.
var ErrModelWarming = errors.New("image model is warming up")

// GeneratorClient talks to the upstream text-to-image inference endpoint
type GeneratorClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeneratorClient creates a new generator client
func NewGeneratorClient(baseURL string, timeout time.Duration) *GeneratorClient {
	return &GeneratorClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     util.GetLogger(),
	}
}

// Generate produces PNG bytes for a prompt. A 503 from upstream maps to
// ErrModelWarming so the handler can tell the customer to retry shortly.
func (gc *GeneratorClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	ctx, span := util.StartSpan(ctx, "GeneratorClient.Generate")
	defer span.End()

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gc.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read generated image: %w", err)
		}
		gc.logger.Info("Image generated", zap.Int("bytes", len(data)))
		return data, nil

	case http.StatusServiceUnavailable:
		gc.logger.Warn("Upstream image model warming up")
		return nil, ErrModelWarming

	default:
		return nil, fmt.Errorf("image generation returned status %d", resp.StatusCode)
	}
}
