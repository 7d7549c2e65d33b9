package tracker

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v66/github"
)

// GitHub is the configured tracker variant, backed by the GitHub REST
// API for a single repository.
type GitHub struct {
	client *gh.Client
	owner  string
	name   string
}

func newGitHub(token, owner, name string) *GitHub {
	return &GitHub{
		client: gh.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		name:   name,
	}
}

// Repo returns the owner/name of the tracked repository.
func (g *GitHub) Repo() string {
	return g.owner + "/" + g.name
}

// CreateIssue opens a new issue.
func (g *GitHub) CreateIssue(ctx context.Context, title, body string, labels, assignees []string) (*Issue, error) {
	req := &gh.IssueRequest{
		Title: gh.String(title),
		Body:  gh.String(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}
	if len(assignees) > 0 {
		req.Assignees = &assignees
	}

	issue, _, err := g.client.Issues.Create(ctx, g.owner, g.name, req)
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return issueRecord(issue), nil
}

// CreatePullRequest opens a pull request from headBranch into baseBranch.
func (g *GitHub) CreatePullRequest(ctx context.Context, title, body, headBranch, baseBranch string) (*PullRequest, error) {
	pr, _, err := g.client.PullRequests.Create(ctx, g.owner, g.name, &gh.NewPullRequest{
		Title: gh.String(title),
		Body:  gh.String(body),
		Head:  gh.String(headBranch),
		Base:  gh.String(baseBranch),
	})
	if err != nil {
		return nil, fmt.Errorf("create pull request: %w", err)
	}
	return &PullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		Title:  pr.GetTitle(),
		State:  pr.GetState(),
	}, nil
}

// AddComment posts a comment on the issue or pull request with the
// given number.
func (g *GitHub) AddComment(ctx context.Context, number int, body string) (*Comment, error) {
	comment, _, err := g.client.Issues.CreateComment(ctx, g.owner, g.name, number, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("add comment to #%d: %w", number, err)
	}
	return &Comment{
		ID:        comment.GetID(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
	}, nil
}

// AddReview submits a review on the pull request with the given number.
// Event is one of COMMENT, APPROVE, or REQUEST_CHANGES.
func (g *GitHub) AddReview(ctx context.Context, number int, body, event string) (*Review, error) {
	review, _, err := g.client.PullRequests.CreateReview(ctx, g.owner, g.name, number, &gh.PullRequestReviewRequest{
		Body:  gh.String(body),
		Event: gh.String(event),
	})
	if err != nil {
		return nil, fmt.Errorf("add review to #%d: %w", number, err)
	}
	return &Review{
		ID:    review.GetID(),
		State: review.GetState(),
		Body:  review.GetBody(),
	}, nil
}

// GetIssue fetches the issue with the given number.
func (g *GitHub) GetIssue(ctx context.Context, number int) (*Issue, error) {
	issue, _, err := g.client.Issues.Get(ctx, g.owner, g.name, number)
	if err != nil {
		return nil, fmt.Errorf("get issue #%d: %w", number, err)
	}
	return issueRecord(issue), nil
}

// ListOpenIssues returns open issues, optionally filtered by labels.
func (g *GitHub) ListOpenIssues(ctx context.Context, labels []string) ([]*Issue, error) {
	issues, _, err := g.client.Issues.ListByRepo(ctx, g.owner, g.name, &gh.IssueListByRepoOptions{
		State:  "open",
		Labels: labels,
	})
	if err != nil {
		return nil, fmt.Errorf("list open issues: %w", err)
	}

	records := make([]*Issue, 0, len(issues))
	for _, issue := range issues {
		records = append(records, issueRecord(issue))
	}
	return records, nil
}

// CloseIssue closes the issue with the given number, posting a final
// comment first when one is provided.
func (g *GitHub) CloseIssue(ctx context.Context, number int, comment string) error {
	if comment != "" {
		if _, err := g.AddComment(ctx, number, comment); err != nil {
			return err
		}
	}

	_, _, err := g.client.Issues.Edit(ctx, g.owner, g.name, number, &gh.IssueRequest{
		State: gh.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("close issue #%d: %w", number, err)
	}
	return nil
}

func issueRecord(issue *gh.Issue) *Issue {
	record := &Issue{
		Number: issue.GetNumber(),
		URL:    issue.GetHTMLURL(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
	}
	for _, label := range issue.Labels {
		record.Labels = append(record.Labels, label.GetName())
	}
	for _, assignee := range issue.Assignees {
		record.Assignees = append(record.Assignees, assignee.GetLogin())
	}
	return record
}
