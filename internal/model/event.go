package model

// Fallbacks applied when the upstream payload omits or empties identity fields.
const (
	UnknownRepositoryName = "unknown/repository"
	UnknownUserLogin      = "unknown"
	DefaultBaseURL        = "https://github.com"
)

// Event kinds with a dedicated Detail variant.
const (
	KindPullRequest = "pull_request"
	KindIssues      = "issues"
	KindPush        = "push"
	KindWorkflowRun = "workflow_run"
	KindRelease     = "release"
	KindUnknown     = "unknown"
)

// Event is one normalized webhook notification. It is built once per request
// and never mutated afterwards.
type Event struct {
	Kind       string     // Value of the event kind header (pull_request, push, ...)
	Action     *string    // Sub-discriminator (opened, closed, ...); nil when absent
	Repository Repository // Origin repository, never empty
	Actor      Actor      // Triggering account, never empty
	Detail     Detail     // Kind specific fields
}

// ActionOr returns the action, or fallback when the event has none.
func (e Event) ActionOr(fallback string) string {
	if e.Action == nil {
		return fallback
	}
	return *e.Action
}

// Repository identifies where an event came from.
type Repository struct {
	FullName string // owner/name
	HTMLURL  string
}

// Actor is the account that triggered an event.
type Actor struct {
	Login   string
	HTMLURL string
}

// Detail is the closed set of kind specific payloads. Only the variants in this
// file implement it.
type Detail interface {
	isDetail()
}

// PullRequest is the detail of a pull_request event.
type PullRequest struct {
	Number       int
	Title        string
	HTMLURL      string
	State        string
	Merged       *bool
	TargetBranch string
}

// Issue is the detail of an issues event.
type Issue struct {
	Number  int
	Title   string
	HTMLURL string
	State   string
}

// Push is the detail of a push event.
type Push struct {
	Ref         string // Full ref, e.g. refs/heads/main
	CompareURL  string
	CommitCount int
}

// WorkflowRun is the detail of a workflow_run event.
type WorkflowRun struct {
	Name       string
	Status     string
	Conclusion *string
	HTMLURL    string
	Branch     string
}

// Release is the detail of a release event.
type Release struct {
	Tag        string
	Name       *string
	HTMLURL    string
	Draft      bool
	Prerelease bool
}

// Unrecognized is used for unknown kinds and for known kinds whose payload
// did not have the expected shape.
type Unrecognized struct{}

func (PullRequest) isDetail()  {}
func (Issue) isDetail()        {}
func (Push) isDetail()         {}
func (WorkflowRun) isDetail()  {}
func (Release) isDetail()      {}
func (Unrecognized) isDetail() {}
