package llm

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

// Client calls an OpenAI-compatible chat-completions API to draft
// survey invitation emails.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

func NewClient(apiKey, model string, temperature float64) *Client {
	return &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		baseURL:     "https://api.openai.com/v1",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

// EmailPrompt carries the survey details the drafted email is built from.
type EmailPrompt struct {
	Title          string
	Description    string
	FormURL        string
	Questions      []string
	RecipientEmail string
	// Seed makes each draft unique so repeated generations for the same
	// survey produce fresh content.
	Seed string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = `You are an assistant that writes professional survey invitation emails.

The email should:
1. Be polite and professional with a warm greeting
2. Briefly explain the purpose of the survey based on its title and description
3. Specifically mention at least 3 questions from the survey, using their exact wording, to give the recipient an idea of what to expect
4. Emphasize the importance and value of the recipient's feedback
5. Include the survey link prominently
6. Thank the recipient for their time
7. End with a professional sign-off
8. Be concise but engaging (maximum 250 words)
9. Be a fresh draft each time rather than a templated one

Respond with the email body as plain text only. No subject line, no commentary.`

// DraftEmail generates an invitation email body for the given survey.
func (c *Client) DraftEmail(ctx context.Context, p EmailPrompt) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM API key not configured")
	}

	var b strings.Builder
	b.WriteString("Please create a professional and personalized email to invite someone to complete a survey.\n\n")
	b.WriteString("Survey details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", p.Title)
	description := p.Description
	if description == "" {
		description = "No description provided"
	}
	fmt.Fprintf(&b, "- Description: %s\n", description)
	fmt.Fprintf(&b, "- Survey Link: %s\n", p.FormURL)
	if p.RecipientEmail != "" {
		fmt.Fprintf(&b, "- Recipient Email: %s\n", p.RecipientEmail)
	}
	if len(p.Questions) > 0 {
		b.WriteString("\nSurvey Questions:\n")
		for i, q := range p.Questions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
		}
	}
	if p.Seed != "" {
		fmt.Fprintf(&b, "\nGeneration ID: %s\n", p.Seed)
	}

	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: b.String()},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call LLM API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("LLM API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return cleanMarkdownWrapper(chatResp.Choices[0].Message.Content), nil
}

func cleanMarkdownWrapper(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}
