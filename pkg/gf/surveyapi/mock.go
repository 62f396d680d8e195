package surveyapi

import (
	"fmt"
	"time"
)

// Canned substitutes returned when the survey service is unreachable.
// They are deliberately recognizable: mock ids, mock titles, and a
// non-functional docs.google.com placeholder URL.

func mockCreated(req CreateRequest) *Survey {
	title := req.Title
	if title == "" {
		title = "Mock Survey"
	}
	now := time.Now().UTC()
	return &Survey{
		ID:          fmt.Sprintf("mock-%d", now.UnixMilli()),
		Title:       title,
		Description: req.Description,
		Questions:   req.Questions,
		Status:      "draft",
		FormURL:     "https://docs.google.com/forms/d/e/mockform",
		IsMock:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func mockListing() []Survey {
	now := time.Now().UTC()
	return []Survey{
		{
			ID:          "mock-1",
			Title:       "Mock Customer Survey",
			Description: "This is a mock survey for demonstration",
			Status:      "approved",
			FormURL:     "https://docs.google.com/forms/d/e/mockform1",
			IsMock:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "mock-2",
			Title:       "Mock Product Feedback",
			Description: "Another mock survey for demonstration",
			Status:      "draft",
			FormURL:     "https://docs.google.com/forms/d/e/mockform2",
			IsMock:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func mockDetails(id string) *Survey {
	now := time.Now().UTC()
	return &Survey{
		ID:          id,
		Title:       "Mock Survey Details",
		Description: "This is a mock survey detail view",
		Status:      "draft",
		FormURL:     fmt.Sprintf("https://docs.google.com/forms/d/e/mockform-%s", id),
		IsMock:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
