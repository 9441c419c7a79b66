package notify

import (
	"fmt"
	"strings"

	"gh-telegram-relay/internal/model"
)

// Glyphs
const (
	glyphPROpened      = "🆕"
	glyphPRMerged      = "🔀"
	glyphPRClosed      = "❌"
	glyphPRReopened    = "🔄"
	glyphPRSynchronize = "📦"
	glyphPRUpdated     = "📝"

	glyphIssueOpened   = "🐛"
	glyphIssueClosed   = "✅"
	glyphIssueReopened = "🔄"
	glyphIssueUpdated  = "📋"

	glyphPush = "⬆️"

	glyphRunSuccess   = "✅"
	glyphRunFailure   = "❌"
	glyphRunCancelled = "🚫"
	glyphRunPending   = "⏳"

	glyphReleaseDraft      = "📝"
	glyphReleasePrerelease = "🧪"
	glyphReleasePublished  = "🏷️"

	glyphUnrecognized = "📡"
)

// defaultAction names events that carry no action.
const defaultAction = "updated"

const branchRefPrefix = "refs/heads/"

// Format renders event as a Telegram Markdown message. It is total over every
// Detail variant and deterministic.
func Format(event model.Event) string {
	switch d := event.Detail.(type) {
	case model.PullRequest:
		return formatPullRequest(event, d)
	case model.Issue:
		return formatIssue(event, d)
	case model.Push:
		return formatPush(event, d)
	case model.WorkflowRun:
		return formatWorkflowRun(d)
	case model.Release:
		return formatRelease(event, d)
	default:
		return formatUnrecognized(event)
	}
}

func byLine(actor model.Actor) string {
	return fmt.Sprintf("_by [%s](%s)_", actor.Login, actor.HTMLURL)
}

func formatPullRequest(event model.Event, pr model.PullRequest) string {
	action := event.ActionOr(defaultAction)

	var glyph string
	switch {
	case action == "opened":
		glyph = glyphPROpened
	case action == "closed" && pr.Merged != nil && *pr.Merged:
		glyph = glyphPRMerged
	case action == "closed":
		glyph = glyphPRClosed
	case action == "reopened":
		glyph = glyphPRReopened
	case action == "synchronize":
		glyph = glyphPRSynchronize
	default:
		glyph = glyphPRUpdated
	}

	return fmt.Sprintf("%s *Pull Request %s* [#%d](%s)\n`%s` → %s\n%s",
		glyph, action, pr.Number, pr.HTMLURL, pr.TargetBranch, escapeMarkdown(pr.Title), byLine(event.Actor))
}

func formatIssue(event model.Event, issue model.Issue) string {
	action := event.ActionOr(defaultAction)

	var glyph string
	switch action {
	case "opened":
		glyph = glyphIssueOpened
	case "closed":
		glyph = glyphIssueClosed
	case "reopened":
		glyph = glyphIssueReopened
	default:
		glyph = glyphIssueUpdated
	}

	return fmt.Sprintf("%s *Issue %s* [#%d](%s)\n%s\n%s",
		glyph, action, issue.Number, issue.HTMLURL, escapeMarkdown(issue.Title), byLine(event.Actor))
}

func formatPush(event model.Event, push model.Push) string {
	branch := strings.TrimPrefix(push.Ref, branchRefPrefix)
	return fmt.Sprintf("%s *Push* to `%s`\n[Compare](%s) • %d commit(s)\n%s",
		glyphPush, branch, push.CompareURL, push.CommitCount, byLine(event.Actor))
}

// formatWorkflowRun has no by line: runs are not credited to a user.
func formatWorkflowRun(run model.WorkflowRun) string {
	status := run.Status
	glyph := glyphRunPending
	if run.Conclusion != nil {
		status = *run.Conclusion
		switch *run.Conclusion {
		case "success":
			glyph = glyphRunSuccess
		case "failure":
			glyph = glyphRunFailure
		case "cancelled":
			glyph = glyphRunCancelled
		}
	}

	return fmt.Sprintf("%s *Workflow* `%s`\nBranch: `%s` • Status: %s\n[View Run](%s)",
		glyph, run.Name, run.Branch, status, run.HTMLURL)
}

func formatRelease(event model.Event, release model.Release) string {
	var glyph string
	switch {
	case release.Draft:
		glyph = glyphReleaseDraft
	case release.Prerelease:
		glyph = glyphReleasePrerelease
	default:
		glyph = glyphReleasePublished
	}

	name := release.Tag
	if release.Name != nil {
		name = *release.Name
	}

	return fmt.Sprintf("%s *Release* `%s`\n%s\n[View Release](%s)\n%s",
		glyph, release.Tag, escapeMarkdown(name), release.HTMLURL, byLine(event.Actor))
}

func formatUnrecognized(event model.Event) string {
	return fmt.Sprintf("%s *%s* on `%s`\n%s",
		glyphUnrecognized, event.Kind, event.Repository.FullName, byLine(event.Actor))
}
