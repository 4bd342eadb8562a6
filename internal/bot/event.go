package bot

import (
	"fmt"
	"strings"

	"github.com/alan/ci-bot/internal/github"
	gogithub "github.com/google/go-github/v57/github"
)

// EventKind is the GitHub event type that started the invocation
type EventKind string

const (
	// EventComment is an issue_comment event
	EventComment EventKind = "issue_comment"
	// EventPullRequest is a pull_request event
	EventPullRequest EventKind = "pull_request"
	// EventWorkflowRun is a workflow_run event
	EventWorkflowRun EventKind = "workflow_run"
	// EventOther is any event the bot does not act on
	EventOther EventKind = "other"
)

// Event is the part of a webhook payload the controller needs
type Event struct {
	Kind   EventKind
	Name   string
	Action string

	Owner string
	Repo  string

	// Number is the pull request number, 0 when the event has none
	Number        int
	IsPullRequest bool

	Actor      string
	ActorIsBot bool
	Body       string

	PullRequest *github.PullRequestContext
	WorkflowRun *github.WorkflowRun
}

// ParseEvent decodes a webhook payload. Event names the bot does not handle
// produce an EventOther value rather than an error.
func ParseEvent(eventName string, payload []byte) (Event, error) {
	event := Event{Kind: EventOther, Name: eventName}

	switch EventKind(eventName) {
	case EventComment, EventPullRequest, EventWorkflowRun:
	default:
		return event, nil
	}

	parsed, err := gogithub.ParseWebHook(eventName, payload)
	if err != nil {
		return event, fmt.Errorf("failed to parse %s payload: %w", eventName, err)
	}

	switch e := parsed.(type) {
	case *gogithub.IssueCommentEvent:
		event.Kind = EventComment
		event.Action = e.GetAction()
		event.Owner, event.Repo = repoName(e.GetRepo())
		event.Number = e.GetIssue().GetNumber()
		event.IsPullRequest = e.GetIssue().IsPullRequest()
		event.Body = e.GetComment().GetBody()
		event.Actor = e.GetComment().GetUser().GetLogin()
		event.ActorIsBot = isBot(e.GetComment().GetUser())

	case *gogithub.PullRequestEvent:
		event.Kind = EventPullRequest
		event.Action = e.GetAction()
		event.Owner, event.Repo = repoName(e.GetRepo())
		event.Number = e.GetPullRequest().GetNumber()
		event.IsPullRequest = true
		event.Actor = e.GetSender().GetLogin()
		event.ActorIsBot = isBot(e.GetSender())
		pr := github.MapPullRequest(event.Owner, event.Repo, e.GetPullRequest())
		event.PullRequest = &pr

	case *gogithub.WorkflowRunEvent:
		event.Kind = EventWorkflowRun
		event.Action = e.GetAction()
		event.Owner, event.Repo = repoName(e.GetRepo())
		event.Actor = e.GetSender().GetLogin()
		event.ActorIsBot = isBot(e.GetSender())
		run := github.MapWorkflowRun(e.GetWorkflowRun())
		event.WorkflowRun = &run
		if prs := e.GetWorkflowRun().PullRequests; len(prs) > 0 {
			event.Number = prs[0].GetNumber()
			event.IsPullRequest = true
		}
	}

	return event, nil
}

func repoName(repo *gogithub.Repository) (string, string) {
	return repo.GetOwner().GetLogin(), repo.GetName()
}

func isBot(user *gogithub.User) bool {
	return user.GetType() == "Bot" || strings.HasSuffix(user.GetLogin(), "[bot]")
}
