package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/surveyapi"
	"golang.org/x/sync/singleflight"
)

// editThreshold is the body length delta above which a manual edit
// counts as substantial and switches AI mode off.
const editThreshold = 10

// Negotiator manages AI email generation for the approval dialog.
// Duplicate in-flight generations for the same survey are collapsed
// into one backend call, and body edits are frozen while a generation
// is outstanding.
type Negotiator struct {
	api   surveyapi.API
	group singleflight.Group
	log   logger.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

func NewNegotiator(api surveyapi.API, log logger.Logger) *Negotiator {
	return &Negotiator{
		api:      api,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// Generating reports whether a generation for the survey is in flight.
func (n *Negotiator) Generating(surveyID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inflight[surveyID]
}

// Generate fetches a fresh AI-drafted email body for the survey.
// Concurrent calls for the same survey share a single backend request.
func (n *Negotiator) Generate(ctx context.Context, surveyID string) (string, error) {
	body, err, _ := n.group.Do(surveyID, func() (any, error) {
		n.setInflight(surveyID, true)
		defer n.setInflight(surveyID, false)

		result, err := n.api.GenerateEmail(ctx, surveyID)
		if err != nil {
			return nil, fmt.Errorf("cannot generate email content: %w", err)
		}
		if !result.Success || result.EmailBody == "" {
			return nil, fmt.Errorf("generation returned no email content")
		}
		return result.EmailBody, nil
	})
	if err != nil {
		n.log.Errorf("AI generation failed for survey %s: %v", surveyID, err)
		return "", err
	}
	return body.(string), nil
}

func (n *Negotiator) setInflight(surveyID string, v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if v {
		n.inflight[surveyID] = true
	} else {
		delete(n.inflight, surveyID)
	}
}

// ApplyEdit applies a manual body edit to the flow. Edits are rejected
// while a generation is in flight. A substantial edit (length delta
// above editThreshold) while AI mode is on clears the AI flag and
// returns a notice.
func (n *Negotiator) ApplyEdit(surveyID string, flow *ApprovalFlow, newBody string) (string, error) {
	if n.Generating(surveyID) {
		return "", fmt.Errorf("email body is locked while AI content is being generated")
	}

	notice := ""
	if flow.UseAI && newBody != flow.EmailBody {
		delta := len(newBody) - len(flow.EmailBody)
		if delta < 0 {
			delta = -delta
		}
		if delta > editThreshold {
			flow.UseAI = false
			notice = "AI content generation disabled due to manual editing"
		}
	}
	flow.EmailBody = newBody
	return notice, nil
}
