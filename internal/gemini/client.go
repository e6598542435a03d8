// Package gemini is the remote generation collaborator: a thin REST
// client for the generateContent endpoint, one method for structured
// JSON text output and one for inline image output.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"chronicle/internal/structures"
)

type GeneratorInterface interface {
	Configured() bool
	GenerateJSON(ctx context.Context, prompt string, schema json.RawMessage) ([]byte, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	endpoint   string
	textModel  string
	imageModel string
	apiKey     string
	httpClient *http.Client
}

func NewClient(conf *structures.Config) GeneratorInterface {
	timeout := conf.Gemini.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimSuffix(conf.Gemini.Endpoint, "/"),
		textModel:  conf.Gemini.TextModel,
		imageModel: conf.Gemini.ImageModel,
		apiKey:     conf.Gemini.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a credential is present. Absence is a
// supported state: callers serve fallback content without calling out.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) generate(ctx context.Context, model, prompt string, cfg *generationConfig) (*generateResponse, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("gemini client not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gemini payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("gemini error %d: %s", out.Error.Code, out.Error.Message)
	}
	return &out, nil
}

// GenerateJSON asks the text model for structured output conforming to
// schema and returns the raw JSON text of the first candidate.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema json.RawMessage) ([]byte, error) {
	resp, err := c.generate(ctx, c.textModel, prompt, &generationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return []byte(p.Text), nil
			}
		}
	}
	return nil, fmt.Errorf("empty response from gemini")
}

// GenerateImage asks the image model for an illustration and returns it
// as a data URI. An answer with no inline image part yields "" with no
// error; the caller decides how to render the absence.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generate(ctx, c.imageModel, prompt, nil)
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				mime := p.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return fmt.Sprintf("data:%s;base64,%s", mime, p.InlineData.Data), nil
			}
		}
	}
	return "", nil
}
