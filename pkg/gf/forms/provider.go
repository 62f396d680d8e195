// Package forms creates externally hosted forms through the Google Forms
// REST API. When the provider is unconfigured, or creation fails, it
// degrades to a placeholder form whose URL carries a sentinel prefix so
// downstream consumers can tell the form is non-functional.
package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/sentinel"
	"github.com/google/uuid"
)

// Form is the result of creating an external form.
type Form struct {
	FormID      string
	FormURL     string // may carry a sentinel prefix when degraded
	ResponseURL string
	EditURL     string
}

// Provider creates external forms.
type Provider interface {
	CreateForm(ctx context.Context, title, description string, questions []string) (*Form, error)
}

// Client is the Google Forms API provider.
type Client struct {
	baseURL     string
	accessToken string
	mockMode    bool
	httpClient  *http.Client
	log         logger.Logger
}

// NewClient creates a forms provider. An empty access token forces mock
// mode: forms are simulated and their URLs sentinel-marked.
func NewClient(baseURL, accessToken string, mockMode bool, log logger.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		mockMode:    mockMode || accessToken == "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// MockMode reports whether the provider simulates form creation.
func (c *Client) MockMode() bool {
	return c.mockMode
}

type formInfo struct {
	Title         string `json:"title"`
	DocumentTitle string `json:"documentTitle"`
	Description   string `json:"description,omitempty"`
}

type createFormRequest struct {
	Info formInfo `json:"info"`
}

type createFormResponse struct {
	FormID       string `json:"formId"`
	ResponderURI string `json:"responderUri"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateForm creates a form with one required paragraph question per
// entry in questions. It never fails outright: provider errors degrade
// to a placeholder form with an ERROR-marked URL, mock mode yields a
// MOCK-marked one. Only context cancellation is returned as an error.
func (c *Client) CreateForm(ctx context.Context, title, description string, questions []string) (*Form, error) {
	if c.mockMode {
		c.log.Infof("Forms provider in mock mode, simulating form %q", title)
		return c.mockForm(), nil
	}

	form, err := c.createRemoteForm(ctx, title, description, questions)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Errorf("Cannot create form %q: %v", title, err)
		return c.errorForm(), nil
	}
	return form, nil
}

func (c *Client) createRemoteForm(ctx context.Context, title, description string, questions []string) (*Form, error) {
	created, err := c.postJSON(ctx, c.baseURL+"/forms", createFormRequest{
		Info: formInfo{Title: title, DocumentTitle: title, Description: description},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create form: %w", err)
	}
	if created.FormID == "" {
		return nil, fmt.Errorf("form creation returned no form id")
	}

	if err := c.addQuestions(ctx, created.FormID, questions); err != nil {
		return nil, fmt.Errorf("cannot add questions to form %s: %w", created.FormID, err)
	}

	formURL := created.ResponderURI
	if formURL == "" {
		formURL = fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform", created.FormID)
	}

	return &Form{
		FormID:      created.FormID,
		FormURL:     formURL,
		ResponseURL: fmt.Sprintf("https://docs.google.com/forms/d/%s/viewanalytics", created.FormID),
		EditURL:     fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", created.FormID),
	}, nil
}

func (c *Client) addQuestions(ctx context.Context, formID string, questions []string) error {
	type textQuestion struct {
		Paragraph bool `json:"paragraph"`
	}
	type question struct {
		Required     bool         `json:"required"`
		TextQuestion textQuestion `json:"textQuestion"`
	}
	type questionItem struct {
		Question question `json:"question"`
	}
	type item struct {
		Title        string       `json:"title"`
		QuestionItem questionItem `json:"questionItem"`
	}
	type location struct {
		Index int `json:"index"`
	}
	type createItem struct {
		Item     item     `json:"item"`
		Location location `json:"location"`
	}
	type request struct {
		CreateItem createItem `json:"createItem"`
	}

	batch := struct {
		Requests []request `json:"requests"`
	}{}
	for i, q := range questions {
		batch.Requests = append(batch.Requests, request{
			CreateItem: createItem{
				Item: item{
					Title: q,
					QuestionItem: questionItem{
						Question: question{Required: true, TextQuestion: textQuestion{Paragraph: true}},
					},
				},
				Location: location{Index: i},
			},
		})
	}

	_, err := c.postJSON(ctx, fmt.Sprintf("%s/forms/%s:batchUpdate", c.baseURL, formID), batch)
	return err
}

func (c *Client) postJSON(ctx context.Context, url string, payload any) (*createFormResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read response: %w", err)
	}

	var decoded createFormResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("cannot parse response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("forms API error: %s", decoded.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("forms API returned status %d", resp.StatusCode)
	}
	return &decoded, nil
}

func (c *Client) mockForm() *Form {
	formID := "mock-" + uuid.New().String()[:8]
	return &Form{
		FormID:      formID,
		FormURL:     sentinel.MarkMock(fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform", formID)),
		ResponseURL: fmt.Sprintf("https://docs.google.com/forms/d/%s/viewanalytics", formID),
		EditURL:     fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", formID),
	}
}

func (c *Client) errorForm() *Form {
	formID := "error-" + uuid.New().String()[:8]
	return &Form{
		FormID:      formID,
		FormURL:     sentinel.MarkError(fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform", formID)),
		ResponseURL: fmt.Sprintf("https://docs.google.com/forms/d/%s/viewanalytics", formID),
		EditURL:     fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", formID),
	}
}
