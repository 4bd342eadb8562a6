package github

import (
	"strings"
	"time"
)

// Workflow run statuses reported by the Actions API
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusWaiting    = "waiting"
	StatusRequested  = "requested"
	StatusPending    = "pending"
)

// Workflow run conclusions reported by the Actions API
const (
	ConclusionSuccess        = "success"
	ConclusionFailure        = "failure"
	ConclusionCancelled      = "cancelled"
	ConclusionSkipped        = "skipped"
	ConclusionNeutral        = "neutral"
	ConclusionTimedOut       = "timed_out"
	ConclusionActionRequired = "action_required"
	ConclusionStartupFailure = "startup_failure"
)

// WorkflowRun is one execution of a workflow for a commit
type WorkflowRun struct {
	ID         int64
	Name       string
	Status     string
	Conclusion string // empty until the run completes
	HeadSHA    string
	HeadBranch string
	WorkflowID int64
	RunAttempt int
	Event      string
	URL        string
}

// IsRunning reports whether the run has not reached a terminal state yet
func (r WorkflowRun) IsRunning() bool {
	switch r.Status {
	case StatusQueued, StatusInProgress, StatusWaiting, StatusRequested, StatusPending:
		return true
	}
	return false
}

// IsFailed reports whether the run ended in a state worth retrying: any
// completed run whose conclusion is not success, skipped or neutral.
// Skipped and neutral are non-success conclusions that still count as not
// failed, so /retry never re-runs a job GitHub deliberately skipped.
func (r WorkflowRun) IsFailed() bool {
	if r.Conclusion == ConclusionFailure {
		return true
	}
	if r.Status != StatusCompleted {
		return false
	}
	switch r.Conclusion {
	case "", ConclusionSuccess, ConclusionSkipped, ConclusionNeutral:
		return false
	}
	return true
}

// IsSucceeded reports whether the run concluded successfully
func (r WorkflowRun) IsSucceeded() bool {
	return r.Conclusion == ConclusionSuccess
}

// PullRequestContext identifies the pull request an event refers to
type PullRequestContext struct {
	Owner      string
	Repo       string
	Number     int
	HeadSHA    string
	HeadBranch string
	BaseBranch string
	Title      string
	Author     string
	URL        string
	State      string
}

// FullName returns the repository in owner/repo form
func (pr PullRequestContext) FullName() string {
	return pr.Owner + "/" + pr.Repo
}

// ShortSHA returns the first seven characters of the head commit
func (pr PullRequestContext) ShortSHA() string {
	if len(pr.HeadSHA) > 7 {
		return pr.HeadSHA[:7]
	}
	return pr.HeadSHA
}

// Comment represents an issue or pull request comment
type Comment struct {
	ID        int64
	Body      string
	User      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PermissionLevel is a collaborator's permission on a repository
type PermissionLevel string

const (
	// PermissionNone indicates the user has no access
	PermissionNone PermissionLevel = "none"
	// PermissionRead indicates read-only access
	PermissionRead PermissionLevel = "read"
	// PermissionTriage indicates triage access
	PermissionTriage PermissionLevel = "triage"
	// PermissionWrite indicates push access
	PermissionWrite PermissionLevel = "write"
	// PermissionMaintain indicates maintain access
	PermissionMaintain PermissionLevel = "maintain"
	// PermissionAdmin indicates admin access
	PermissionAdmin PermissionLevel = "admin"
)

// ParsePermissionLevel converts a string to PermissionLevel
func ParsePermissionLevel(s string) PermissionLevel {
	switch strings.ToLower(s) {
	case "read":
		return PermissionRead
	case "triage":
		return PermissionTriage
	case "write":
		return PermissionWrite
	case "maintain":
		return PermissionMaintain
	case "admin":
		return PermissionAdmin
	default:
		return PermissionNone
	}
}

// CanWrite reports whether the level allows pushing to the repository
func (p PermissionLevel) CanWrite() bool {
	return p == PermissionWrite || p == PermissionMaintain || p == PermissionAdmin
}
