// Package tracker wraps a remote issue tracker behind a narrow
// capability interface.
//
// Two variants exist: GitHub, backed by the GitHub REST API, and
// Unconfigured, which returns well-formed placeholder records so that
// demos and tests run without credentials. The variant is chosen at
// construction from the passed-in credentials, never from environment
// probing.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Issue is a structured record of a tracker issue.
type Issue struct {
	Number    int      `json:"number"`
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	State     string   `json:"state"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
}

// PullRequest is a structured record of a pull request.
type PullRequest struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	State  string `json:"state"`
}

// Comment is a structured record of an issue or PR comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Review is a structured record of a pull request review.
type Review struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
	Body  string `json:"body,omitempty"`
}

// Tracker is the capability set the coordinator's collaborators consume.
type Tracker interface {
	CreateIssue(ctx context.Context, title, body string, labels, assignees []string) (*Issue, error)
	CreatePullRequest(ctx context.Context, title, body, headBranch, baseBranch string) (*PullRequest, error)
	AddComment(ctx context.Context, number int, body string) (*Comment, error)
	AddReview(ctx context.Context, number int, body, event string) (*Review, error)
	GetIssue(ctx context.Context, number int) (*Issue, error)
	ListOpenIssues(ctx context.Context, labels []string) ([]*Issue, error)
	CloseIssue(ctx context.Context, number int, comment string) error
}

// New selects a tracker variant from the given credentials. A missing
// token or repository yields the Unconfigured variant; otherwise repo
// must be in "owner/name" form.
func New(token, repo string) (Tracker, error) {
	if token == "" || repo == "" {
		return &Unconfigured{}, nil
	}

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repository %q must be in owner/name form", repo)
	}
	return newGitHub(token, owner, name), nil
}
