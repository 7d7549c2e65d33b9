package tracker

import (
	"context"
	"time"
)

// Unconfigured is the tracker variant used when no credentials are
// provided. Every operation succeeds with a well-formed placeholder
// record, so callers degrade gracefully instead of failing.
type Unconfigured struct{}

// CreateIssue returns a placeholder issue echoing the requested title.
func (u *Unconfigured) CreateIssue(_ context.Context, title, body string, labels, assignees []string) (*Issue, error) {
	return &Issue{
		Number:    1,
		URL:       "https://github.com/unconfigured/issue/1",
		Title:     title,
		Body:      body,
		State:     "open",
		Labels:    labels,
		Assignees: assignees,
	}, nil
}

// CreatePullRequest returns a placeholder pull request.
func (u *Unconfigured) CreatePullRequest(_ context.Context, title, _, _, _ string) (*PullRequest, error) {
	return &PullRequest{
		Number: 1,
		URL:    "https://github.com/unconfigured/pull/1",
		Title:  title,
		State:  "open",
	}, nil
}

// AddComment returns a placeholder comment echoing the body.
func (u *Unconfigured) AddComment(_ context.Context, _ int, body string) (*Comment, error) {
	return &Comment{ID: 1, Body: body, CreatedAt: time.Now()}, nil
}

// AddReview returns a placeholder review in the requested event state.
func (u *Unconfigured) AddReview(_ context.Context, _ int, body, event string) (*Review, error) {
	return &Review{ID: 1, State: event, Body: body}, nil
}

// GetIssue returns a placeholder issue for the requested number.
func (u *Unconfigured) GetIssue(_ context.Context, number int) (*Issue, error) {
	return &Issue{
		Number: number,
		Title:  "Placeholder Issue",
		State:  "open",
	}, nil
}

// ListOpenIssues returns an empty list.
func (u *Unconfigured) ListOpenIssues(_ context.Context, _ []string) ([]*Issue, error) {
	return []*Issue{}, nil
}

// CloseIssue is a no-op.
func (u *Unconfigured) CloseIssue(_ context.Context, _ int, _ string) error {
	return nil
}
