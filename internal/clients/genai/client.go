package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/pkg/httpx"
)

// ErrBlocked is returned when the generation service refuses to answer for
// safety/policy reasons. Callers must treat it as a distinct outcome, not a
// transport failure.
var ErrBlocked = errors.New("genai: response blocked by safety policy")

// GenerationOptions tunes a single call. Zero values fall back to the
// service defaults.
type GenerationOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Client is the generation-service client used by the assistant layer.
// GenerateJSON forces an application/json response; it returns the raw JSON
// text, parsing is the caller's concern.
type Client interface {
	GenerateText(ctx context.Context, system string, user string, opts GenerationOptions) (string, error)
	GenerateJSON(ctx context.Context, system string, user string, opts GenerationOptions) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("GENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("GENAI_MODEL"))
	if model == "" {
		model = "gemini-1.5-flash"
	}

	timeoutSec := 120
	if v := os.Getenv("GENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("service", "GenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
	TopK             int     `json:"topK,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (c *client) do(ctx context.Context, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpx.StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return fmt.Errorf("genai decode error: %w; raw=%s", uErr, string(raw))
	}
	return nil
}

func (c *client) generate(ctx context.Context, system string, user string, cfg generationConfig) (string, error) {
	req := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: user}}},
		},
		GenerationConfig: &cfg,
	}
	if strings.TrimSpace(system) != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	var resp generateResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}

	if resp.PromptFeedback.BlockReason != "" {
		c.log.Warn("Generation blocked", "block_reason", resp.PromptFeedback.BlockReason)
		return "", ErrBlocked
	}
	text := extractCandidateText(resp)
	if strings.TrimSpace(text) == "" {
		// The service signals refusals by returning no content parts.
		return "", ErrBlocked
	}
	return text, nil
}

func extractCandidateText(resp generateResponse) string {
	var out strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				out.WriteString(p.Text)
			}
		}
	}
	return out.String()
}

func (c *client) GenerateText(ctx context.Context, system string, user string, opts GenerationOptions) (string, error) {
	return c.generate(ctx, system, user, buildConfig(opts, ""))
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, opts GenerationOptions) (string, error) {
	return c.generate(ctx, system, user, buildConfig(opts, "application/json"))
}

func buildConfig(opts GenerationOptions, mimeType string) generationConfig {
	cfg := generationConfig{
		Temperature:      opts.Temperature,
		TopP:             0.95,
		TopK:             40,
		MaxOutputTokens:  opts.MaxOutputTokens,
		ResponseMimeType: mimeType,
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 8192
	}
	return cfg
}
