// Package surveyapi is the client SDK for the survey service REST API.
//
// The client distinguishes transport failures (the service could not be
// reached at all) from application failures (the service answered with
// an error status). Read-style operations and create substitute canned
// mock data on transport failure so the console keeps working while the
// backend is down; approve and generate-email always propagate, since
// pretending an approval succeeded would be a lie with side effects.
package surveyapi

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
)

// Survey is the wire representation of a survey.
type Survey struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Questions       []string  `json:"questions,omitempty"`
	Status          string    `json:"status"`
	FormURL         string    `json:"form_url"`
	ResponseURL     string    `json:"response_url,omitempty"`
	IsMock          bool      `json:"is_mock,omitempty"`
	RecipientEmail  string    `json:"recipient_email,omitempty"`
	RecipientEmails []string  `json:"recipient_emails,omitempty"`
	EmailSubject    string    `json:"email_subject,omitempty"`
	EmailBody       string    `json:"email_body,omitempty"`
	EmailStatus     string    `json:"email_status,omitempty"`
	EmailDetail     string    `json:"email_detail,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// FormKind is the sentinel classification of FormURL before the
	// prefix was stripped. Not part of the wire format.
	FormKind sentinel.Kind `json:"-"`
}

// CreateRequest is the payload for creating a survey.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Questions   []string `json:"questions"`
}

// ApproveRequest is the payload for approving a survey.
type ApproveRequest struct {
	RecipientEmail        string   `json:"recipient_email,omitempty"`
	RecipientEmails       []string `json:"recipient_emails,omitempty"`
	EmailSubject          string   `json:"email_subject,omitempty"`
	EmailBody             string   `json:"email_body,omitempty"`
	UseAIGeneratedContent bool     `json:"use_ai_generated_content,omitempty"`
}

// GenerateEmailResult is the response of the generate-email operation.
type GenerateEmailResult struct {
	Success   bool   `json:"success"`
	EmailBody string `json:"email_body"`
	Timestamp string `json:"timestamp"`
}

// Error is an application failure reported by the survey service.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("survey service returned %d: %s", e.Status, e.Detail)
}

// API is the survey service client surface the console depends on.
type API interface {
	Create(ctx context.Context, req CreateRequest) (*Survey, error)
	List(ctx context.Context) ([]Survey, error)
	Get(ctx context.Context, id string) (*Survey, error)
	Approve(ctx context.Context, id string, req ApproveRequest) (*Survey, error)
	GenerateEmail(ctx context.Context, id string) (*GenerateEmailResult, error)
	Delete(ctx context.Context, id string) error
}

// Client talks to the survey service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a survey service client. baseURL points at the API
// root, e.g. "http://localhost:8080/api".
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Create creates a survey. On transport failure it substitutes a
// synthesized mock survey instead of failing.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Survey, error) {
	var survey Survey
	err := c.do(ctx, "POST", "/surveys/", req, &survey)
	if err != nil {
		if transportFailure(ctx, err) {
			c.log.Infof("Survey service unreachable, substituting mock survey: %v", err)
			return mockCreated(req), nil
		}
		return nil, err
	}
	decodeFormURL(&survey)
	return &survey, nil
}

// List fetches all surveys. On transport failure it substitutes a fixed
// two-survey mock listing.
func (c *Client) List(ctx context.Context) ([]Survey, error) {
	var resp struct {
		Surveys []Survey `json:"surveys"`
	}
	err := c.do(ctx, "GET", "/surveys/", nil, &resp)
	if err != nil {
		if transportFailure(ctx, err) {
			c.log.Infof("Survey service unreachable, substituting mock listing: %v", err)
			return mockListing(), nil
		}
		return nil, err
	}
	for i := range resp.Surveys {
		decodeFormURL(&resp.Surveys[i])
	}
	return resp.Surveys, nil
}

// Get fetches one survey by id. On transport failure it substitutes a
// mock record keyed by the requested id.
func (c *Client) Get(ctx context.Context, id string) (*Survey, error) {
	var survey Survey
	err := c.do(ctx, "GET", "/surveys/"+id, nil, &survey)
	if err != nil {
		if transportFailure(ctx, err) {
			c.log.Infof("Survey service unreachable, substituting mock survey %s: %v", id, err)
			return mockDetails(id), nil
		}
		return nil, err
	}
	decodeFormURL(&survey)
	return &survey, nil
}

// Approve approves a survey and triggers email notifications. Every
// failure propagates: an approval must never be faked.
func (c *Client) Approve(ctx context.Context, id string, req ApproveRequest) (*Survey, error) {
	var survey Survey
	if err := c.do(ctx, "POST", "/surveys/"+id+"/approve", req, &survey); err != nil {
		return nil, err
	}
	decodeFormURL(&survey)
	return &survey, nil
}

// GenerateEmail asks the service for a fresh AI-drafted email body.
// Every failure propagates.
func (c *Client) GenerateEmail(ctx context.Context, id string) (*GenerateEmailResult, error) {
	var result GenerateEmailResult
	if err := c.do(ctx, "POST", "/surveys/"+id+"/generate-email", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a survey. A transport failure is treated as success,
// matching the read-style substitution policy.
func (c *Client) Delete(ctx context.Context, id string) error {
	err := c.do(ctx, "DELETE", "/surveys/"+id, nil, nil)
	if err != nil && transportFailure(ctx, err) {
		c.log.Infof("Survey service unreachable, treating delete of %s as done: %v", id, err)
		return nil
	}
	return err
}

// transportError wraps round-trip failures so they can be told apart
// from application errors and decoding errors.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("cannot reach survey service: %v", e.err)
}

func (e *transportError) Unwrap() error {
	return e.err
}

func transportFailure(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	_, ok := err.(*transportError)
	return ok
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("cannot marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("cannot create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cannot read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Detail: errorDetail(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("cannot parse response: %w", err)
		}
	}
	return nil
}

func errorDetail(body []byte) string {
	var wire struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Detail != "" {
		return wire.Detail
	}
	return strings.TrimSpace(string(body))
}

// decodeFormURL strips any sentinel prefix from the survey's form URL
// and records the classification. Degraded URLs flag the survey mock.
func decodeFormURL(s *Survey) {
	decoded := sentinel.Decode(s.FormURL)
	s.FormURL = decoded.URL
	s.FormKind = decoded.Kind
	if decoded.Degraded() {
		s.IsMock = true
	}
}
