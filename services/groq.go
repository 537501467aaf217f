package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"wayfarer/logger"
)

// ChatTurn is one message of LLM context.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GroqClient calls the Groq chat-completions API (OpenAI-compatible).
type GroqClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewGroqClient(apiKey, model, baseURL string, timeout time.Duration) *GroqClient {
	c := &GroqClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Named("groq"),
	}
	if apiKey == "" {
		c.log.Warn("groq API key not set, AI re-ranking disabled")
	}
	return c
}

// Configured reports whether the client can make live calls.
func (c *GroqClient) Configured() bool { return c.apiKey != "" }

type groqRequest struct {
	Model       string     `json:"model"`
	Messages    []ChatTurn `json:"messages"`
	Temperature float64    `json:"temperature"`
	MaxTokens   int        `json:"max_tokens"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a system prompt plus conversation turns and returns the raw
// assistant reply. Callers own parsing and fallback.
func (c *GroqClient) Complete(ctx context.Context, system string, turns []ChatTurn) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("groq API key not configured")
	}

	messages := make([]ChatTurn, 0, len(turns)+1)
	messages = append(messages, ChatTurn{Role: "system", Content: system})
	messages = append(messages, turns...)

	reqBody := groqRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed groqResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse groq response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from groq")
	}

	return parsed.Choices[0].Message.Content, nil
}
