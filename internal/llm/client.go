package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/psiazon/clinical-triage/internal/config"
)

const temperature = 0.2

// Provider identifies the chat-completions backend variant.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderAzure  Provider = "azure"
)

// Client talks to an OpenAI-compatible chat-completions endpoint. The
// provider variant is fixed at construction; call sites never branch on it.
type Client struct {
	provider   Provider
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New builds a Client from config. Azure takes precedence when its endpoint,
// key, and deployment are all present; otherwise the OpenAI key is required.
func New(cfg config.LLMConfig) (*Client, error) {
	if cfg.UseAzure() {
		endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			strings.TrimRight(cfg.AzureEndpoint, "/"),
			url.PathEscape(cfg.AzureDeployment),
			url.QueryEscape(cfg.AzureAPIVersion))
		return &Client{
			provider:   ProviderAzure,
			endpoint:   endpoint,
			apiKey:     cfg.AzureAPIKey,
			httpClient: http.DefaultClient,
		}, nil
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no LLM credentials: set OPENAI_API_KEY, or AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT")
	}

	return &Client{
		provider:   ProviderOpenAI,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: http.DefaultClient,
	}, nil
}

// Provider returns the variant selected at construction.
func (c *Client) Provider() Provider {
	return c.provider
}

// Complete sends one chat-completion request and returns the raw content of
// the first choice. With jsonMode set, the model is asked for a JSON object
// response.
func (c *Client) Complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if jsonMode {
		reqBody.ResponseFormat = &respFormat{Type: "json_object"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	switch c.provider {
	case ProviderAzure:
		req.Header.Set("api-key", c.apiKey)
	default:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return extractContent(respBody)
}

func extractContent(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
