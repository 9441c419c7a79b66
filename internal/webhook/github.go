package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/go-github/v57/github"

	"gh-telegram-relay/internal/model"
	pkgLog "gh-telegram-relay/pkg/log"
)

// formPayloadField is the form field GitHub uses for application/x-www-form-urlencoded deliveries.
const formPayloadField = "payload"

// GitHubWebhookParser normalizes GitHub webhook payloads into model.Event.
type GitHubWebhookParser struct {
	l pkgLog.Logger
}

func NewGitHubParser(l pkgLog.Logger) *GitHubWebhookParser {
	return &GitHubWebhookParser{l: l}
}

// Parse builds an Event from a raw webhook body. It only fails when the body
// is not a JSON document, directly or inside the form field "payload".
// Missing identity fields fall back to placeholders and a kind specific payload
// that cannot be read degrades to model.Unrecognized.
//
// Nesting follows GitHub's schema: pull request fields live under
// "pull_request", issue fields under "issue", workflow fields under
// "workflow_run", release fields under "release"; push fields are top level.
func (p *GitHubWebhookParser) Parse(ctx context.Context, kind string, body []byte) (model.Event, error) {
	raw, doc, err := decodeDocument(body)
	if err != nil {
		return model.Event{}, err
	}

	event := model.Event{
		Kind:       kind,
		Action:     optionalString(doc, "action"),
		Repository: parseRepository(doc["repository"]),
		Actor:      parseActor(doc["sender"]),
	}

	detail, err := parseDetail(kind, raw, doc)
	if err != nil {
		p.l.Warnf(ctx, "webhook.parser: %s payload degraded to unrecognized: %v", kind, err)
		detail = model.Unrecognized{}
	}
	event.Detail = detail

	return event, nil
}

// decodeDocument returns the JSON object carried by body together with its raw bytes.
func decodeDocument(body []byte) (json.RawMessage, map[string]json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err == nil && doc != nil {
		return body, doc, nil
	}

	// ParseQuery keeps every pair it could decode, so a bad unrelated field
	// does not hide a valid payload.
	values, err := url.ParseQuery(string(body))
	if !values.Has(formPayloadField) {
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return nil, nil, fmt.Errorf("%w: not JSON and no %q form field", ErrMalformedBody, formPayloadField)
	}

	payload := []byte(values.Get(formPayloadField))
	if err := json.Unmarshal(payload, &doc); err != nil || doc == nil {
		return nil, nil, fmt.Errorf("%w: %q form field is not a JSON object", ErrMalformedBody, formPayloadField)
	}

	return payload, doc, nil
}

// optionalString reads doc[key] as a non-empty string. Anything else is nil.
func optionalString(doc map[string]json.RawMessage, key string) *string {
	raw, ok := doc[key]
	if !ok {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil || *s == "" {
		return nil
	}
	return s
}

// stringOr reads doc[key] as a string, returning fallback when missing or empty.
func stringOr(doc map[string]json.RawMessage, key, fallback string) string {
	if s := optionalString(doc, key); s != nil {
		return *s
	}
	return fallback
}

// objectFields decodes raw as a JSON object field by field. Non objects yield an empty map.
func objectFields(raw json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if len(raw) == 0 {
		return fields
	}
	_ = json.Unmarshal(raw, &fields)
	return fields
}

func parseRepository(raw json.RawMessage) model.Repository {
	fields := objectFields(raw)
	return model.Repository{
		FullName: stringOr(fields, "full_name", model.UnknownRepositoryName),
		HTMLURL:  stringOr(fields, "html_url", model.DefaultBaseURL),
	}
}

func parseActor(raw json.RawMessage) model.Actor {
	fields := objectFields(raw)
	return model.Actor{
		Login:   stringOr(fields, "login", model.UnknownUserLogin),
		HTMLURL: stringOr(fields, "html_url", model.DefaultBaseURL),
	}
}

func parseDetail(kind string, raw json.RawMessage, doc map[string]json.RawMessage) (model.Detail, error) {
	switch kind {
	case model.KindPullRequest:
		return parsePullRequest(doc["pull_request"])
	case model.KindIssues:
		return parseIssue(doc["issue"])
	case model.KindPush:
		return parsePush(raw, doc)
	case model.KindWorkflowRun:
		return parseWorkflowRun(doc["workflow_run"])
	case model.KindRelease:
		return parseRelease(doc["release"])
	default:
		return model.Unrecognized{}, nil
	}
}

// fieldSet names the members kept from a JSON object. A non-nil value narrows
// the nested object under that key the same way.
type fieldSet map[string]fieldSet

var (
	pullRequestFields = fieldSet{"number": nil, "title": nil, "html_url": nil, "state": nil, "merged": nil, "base": {"ref": nil}}
	issueFields       = fieldSet{"number": nil, "title": nil, "html_url": nil, "state": nil}
	pushFields        = fieldSet{"ref": nil, "compare": nil}
	workflowRunFields = fieldSet{"name": nil, "status": nil, "conclusion": nil, "html_url": nil, "head_branch": nil}
	releaseFields     = fieldSet{"tag_name": nil, "name": nil, "html_url": nil, "draft": nil, "prerelease": nil}
)

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// project drops every member of raw that is not in fields, so members the
// relay never reads cannot fail the typed decode.
func project(raw json.RawMessage, fields fieldSet) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	kept := make(map[string]json.RawMessage, len(fields))
	for key, nested := range fields {
		value, ok := obj[key]
		if !ok {
			continue
		}
		if nested != nil && !isNull(value) {
			var err error
			if value, err = project(value, nested); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
		}
		kept[key] = value
	}
	return json.Marshal(kept)
}

// unmarshalObject decodes the listed members of a nested object, rejecting
// absent or null values.
func unmarshalObject(name string, raw json.RawMessage, fields fieldSet, v any) error {
	if isNull(raw) {
		return fmt.Errorf("%w: %s object missing", ErrUnexpectedShape, name)
	}
	projected, err := project(raw, fields)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedShape, name, err)
	}
	if err := json.Unmarshal(projected, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedShape, name, err)
	}
	return nil
}

func missingFields(name string) error {
	return fmt.Errorf("%w: %s is missing required fields", ErrUnexpectedShape, name)
}

func parsePullRequest(raw json.RawMessage) (model.Detail, error) {
	var pr github.PullRequest
	if err := unmarshalObject("pull_request", raw, pullRequestFields, &pr); err != nil {
		return nil, err
	}
	if pr.Number == nil || pr.Title == nil || pr.HTMLURL == nil || pr.State == nil ||
		pr.Base == nil || pr.Base.Ref == nil {
		return nil, missingFields("pull_request")
	}

	return model.PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		HTMLURL:      pr.GetHTMLURL(),
		State:        pr.GetState(),
		Merged:       pr.Merged,
		TargetBranch: pr.GetBase().GetRef(),
	}, nil
}

func parseIssue(raw json.RawMessage) (model.Detail, error) {
	var issue github.Issue
	if err := unmarshalObject("issue", raw, issueFields, &issue); err != nil {
		return nil, err
	}
	if issue.Number == nil || issue.Title == nil || issue.HTMLURL == nil || issue.State == nil {
		return nil, missingFields("issue")
	}

	return model.Issue{
		Number:  issue.GetNumber(),
		Title:   issue.GetTitle(),
		HTMLURL: issue.GetHTMLURL(),
		State:   issue.GetState(),
	}, nil
}

// parsePush reads the top level document. Only the length of "commits" is
// used, so individual commits are not decoded, but the array must be present.
func parsePush(raw json.RawMessage, doc map[string]json.RawMessage) (model.Detail, error) {
	var push github.PushEvent
	if err := unmarshalObject("push", raw, pushFields, &push); err != nil {
		return nil, err
	}
	if push.Ref == nil || push.Compare == nil {
		return nil, missingFields("push")
	}

	var commits []json.RawMessage
	if isNull(doc["commits"]) {
		return nil, missingFields("push")
	}
	if err := json.Unmarshal(doc["commits"], &commits); err != nil {
		return nil, fmt.Errorf("%w: push commits: %v", ErrUnexpectedShape, err)
	}

	return model.Push{
		Ref:         push.GetRef(),
		CompareURL:  push.GetCompare(),
		CommitCount: len(commits),
	}, nil
}

func parseWorkflowRun(raw json.RawMessage) (model.Detail, error) {
	var run github.WorkflowRun
	if err := unmarshalObject("workflow_run", raw, workflowRunFields, &run); err != nil {
		return nil, err
	}
	if run.Name == nil || run.Status == nil || run.HTMLURL == nil || run.HeadBranch == nil {
		return nil, missingFields("workflow_run")
	}

	return model.WorkflowRun{
		Name:       run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.Conclusion,
		HTMLURL:    run.GetHTMLURL(),
		Branch:     run.GetHeadBranch(),
	}, nil
}

func parseRelease(raw json.RawMessage) (model.Detail, error) {
	var release github.RepositoryRelease
	if err := unmarshalObject("release", raw, releaseFields, &release); err != nil {
		return nil, err
	}
	if release.TagName == nil || release.HTMLURL == nil || release.Draft == nil || release.Prerelease == nil {
		return nil, missingFields("release")
	}

	var name *string
	if release.GetName() != "" {
		name = release.Name
	}

	return model.Release{
		Tag:        release.GetTagName(),
		Name:       name,
		HTMLURL:    release.GetHTMLURL(),
		Draft:      release.GetDraft(),
		Prerelease: release.GetPrerelease(),
	}, nil
}
