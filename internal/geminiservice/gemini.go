package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apexfit-relay/internal/config"
	"apexfit-relay/internal/logging"
	"github.com/rs/zerolog"
)

// --- Gemini API Configuration ---
const (
	generateContentPath = "/v1beta/models/%s:generateContent"
	userRole            = "user"
	temperature         = 0.6
	maxOutputTokens     = 1024
	structuredMimeType  = "application/json"
)

// --- Structs for Gemini API Request/Response ---

type GeminiPayload struct {
	Contents         []GeminiContent   `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	Temperature      float64       `json:"temperature"`
	MaxOutputTokens  int           `json:"maxOutputTokens"`
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *GeminiSchema `json:"response_schema,omitempty"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

// UpstreamError is returned when Gemini answers with a non-2xx status. Body
// carries the raw response so callers can surface Google's own message.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API returned non-2xx status: %s, Body: %s", e.Status, e.Body)
}

// Client calls the Gemini generateContent endpoint. A single Client is safe
// for concurrent use; each Generate call is an independent HTTP request.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	structured bool
	httpClient *http.Client
}

// NewClient builds a Client from the process configuration. The HTTP client
// timeout comes from cfg.Timeout.
func NewClient(cfg config.Config) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP is NewClient with a caller-supplied *http.Client, e.g.
// one with a custom transport. A nil client falls back to the default.
func NewClientWithHTTP(cfg config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		structured: cfg.StructuredOutput,
		httpClient: httpClient,
	}
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate's parts. A 2xx response without candidates or
// parts yields an empty string, not an error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	logger := zerolog.Ctx(ctx)

	if c.apiKey == "" {
		return "", config.ErrMissingAPIKey
	}

	payloadBytes, err := json.Marshal(c.buildPayload(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := c.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", redactURLError(err))
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug().
		Str("url", logging.RedactURL(endpoint)).
		Int("prompt_chars", len(prompt)).
		Msg("Calling Gemini API")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", redactURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upErr := &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
		logger.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("Gemini API returned an error")
		return "", upErr
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := firstCandidateText(geminiResp)
	if reason := finishReason(geminiResp); text == "" || (reason != "" && reason != "STOP") {
		logger.Warn().
			Str("finish_reason", reason).
			Int("reply_chars", len(text)).
			Msg("Gemini reply is empty or incomplete")
	}
	logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("reply_chars", len(text)).
		Msg("Gemini API call succeeded")

	return text, nil
}

func (c *Client) buildPayload(prompt string) GeminiPayload {
	gen := &GenerationConfig{
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	}
	if c.structured {
		gen.ResponseMimeType = structuredMimeType
		gen.ResponseSchema = PlanSchema
	}

	return GeminiPayload{
		Contents: []GeminiContent{
			{Role: userRole, Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: gen,
	}
}

func (c *Client) endpoint() string {
	return c.baseURL + fmt.Sprintf(generateContentPath, url.PathEscape(c.model)) + "?key=" + url.QueryEscape(c.apiKey)
}

// redactURLError rewrites the URL inside a *url.Error so the ?key= query
// never ends up in error messages returned to callers or written to logs.
// The wrapped cause is kept, so errors.Is still sees context errors.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: logging.RedactURL(urlErr.URL), Err: urlErr.Err}
}

func finishReason(resp GeminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	return resp.Candidates[0].FinishReason
}

// firstCandidateText joins candidates[0].content.parts[*].text in order.
func firstCandidateText(resp GeminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
