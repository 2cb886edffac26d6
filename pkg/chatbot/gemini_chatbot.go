package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash-preview-09-2025"
)

type GeminiChatParts struct {
	Text string `json:"text"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
	Role  string             `json:"role,omitempty"`
}

type GeminiChatRequest struct {
	Contents          []*GeminiChatContent `json:"contents"`
	SystemInstruction *GeminiChatContent   `json:"systemInstruction,omitempty"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

// NewGeminiChatRequest builds a single-turn request. The system instruction
// is omitted from the payload when empty.
func NewGeminiChatRequest(prompt, systemInstruction string) *GeminiChatRequest {
	req := &GeminiChatRequest{
		Contents: []*GeminiChatContent{
			{Parts: []*GeminiChatParts{{Text: prompt}}},
		},
	}
	if systemInstruction != "" {
		req.SystemInstruction = &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: systemInstruction}},
		}
	}
	return req
}

// FirstText returns candidates[0].content.parts[0].text, or false when any
// step of that path is missing or the text is empty.
func (r *GeminiChatResponse) FirstText() (string, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	c := r.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", false
	}
	text := c.Content.Parts[0].Text
	if text == "" {
		return "", false
	}
	return text, true
}

// Transport performs exactly one generateContent round trip. Any returned
// error is a failed attempt.
type Transport interface {
	GenerateContent(ctx context.Context, req *GeminiChatRequest) (*GeminiChatResponse, error)
}

// GeminiTransport talks to the Gemini REST API.
type GeminiTransport struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

var _ Transport = (*GeminiTransport)(nil)

func NewGeminiTransport(baseURL, model, apiKey string) *GeminiTransport {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (t *GeminiTransport) GenerateContent(ctx context.Context, payload *GeminiChatRequest) (*GeminiChatResponse, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", t.BaseURL, t.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", t.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes GeminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &geminiRes, nil
}
