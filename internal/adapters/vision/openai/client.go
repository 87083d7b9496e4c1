package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"pawtrol-ai/internal/platform/httpclient"
	"pawtrol-ai/internal/ports/vision"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	// Presupuesto de respuesta por variante. El prompt de stream pide
	// solo una descripción breve, así que recorta el costo/latencia.
	maxTokensUpload    = 400
	maxTokensStream    = 150
	maxTokensSummarize = 300

	chatPath = "/chat/completions"
)

var ErrNotConfigured = errors.New("openai client not configured")

// Config del cliente de visión. BaseURL/APIKey/Model normalmente
// vienen de env vars en quien lo instancia (ver ConfigFromEnv).
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ConfigFromEnv lee OPENAI_API_KEY, OPENAI_BASE_URL y OPENAI_MODEL.
func ConfigFromEnv() Config {
	return Config{
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}
}

type Client struct {
	http   *httpclient.Client
	apiKey string
	model  string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
	}, nil
}

// NewClientWithTransport permite inyectar un RoundTripper (tests).
func NewClientWithTransport(cfg Config, tr http.RoundTripper) (*Client, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	c.http = httpclient.NewWithTransport(cfg.Timeout, tr)
	c.http.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if c.http.BaseURL == "" {
		c.http.BaseURL = defaultBaseURL
	}
	return c, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

// ---- payloads del API de chat completions ----

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func promptFor(variant vision.PromptVariant) string {
	if variant == vision.VariantStream {
		return "Detect and describe animal movement in this live frame."
	}
	return "You are Pawtrol AI — a smart animal monitoring system. " +
		"Analyze this image and respond with:\n" +
		"1. The animal(s) detected\n" +
		"2. The movement or behavior (running, sitting, walking, etc.)\n" +
		"3. Confidence level (0-1)\n" +
		"4. A short summary for the user"
}

func maxTokensFor(variant vision.PromptVariant) int {
	if variant == vision.VariantStream {
		return maxTokensStream
	}
	return maxTokensUpload
}

// Analyze manda la imagen como data URL al backend de visión.
// Mapea fallas al taxonomía del port: input/backend/network.
func (c *Client) Analyze(ctx context.Context, image []byte, variant vision.PromptVariant) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", vision.ErrInput)
	}
	if !c.IsConfigured() {
		return "", fmt.Errorf("%w: %v", vision.ErrBackend, ErrNotConfigured)
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	req := chatRequest{
		Model:     c.model,
		MaxTokens: maxTokensFor(variant),
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "text", Text: promptFor(variant)},
				{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL}},
			},
		}},
	}

	return c.complete(ctx, req)
}

// Summarize reduce notas crudas del día a un párrafo corto.
func (c *Client) Summarize(ctx context.Context, notes []string) (string, error) {
	if len(notes) == 0 {
		return "", fmt.Errorf("%w: no notes", vision.ErrInput)
	}
	if !c.IsConfigured() {
		return "", fmt.Errorf("%w: %v", vision.ErrBackend, ErrNotConfigured)
	}

	prompt := "You are Pawtrol AI. Summarize today's animal monitoring notes " +
		"into a short digest for the owner:\n\n" + strings.Join(notes, "\n---\n")

	req := chatRequest{
		Model:     c.model,
		MaxTokens: maxTokensSummarize,
		Messages: []chatMessage{{
			Role:    "user",
			Content: []chatContent{{Type: "text", Text: prompt}},
		}},
	}

	return c.complete(ctx, req)
}

func (c *Client) complete(ctx context.Context, req chatRequest) (string, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var out chatResponse
	err := c.http.DoJSON(ctx, http.MethodPost, chatPath, headers, req, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return "", fmt.Errorf("%w: status=%d", vision.ErrBackend, httpErr.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", vision.ErrNetwork, err)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", vision.ErrBackend)
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", vision.ErrBackend)
	}
	return text, nil
}
