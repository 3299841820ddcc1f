package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkstone-app/inkstone/internal/editor"
)

// StatusTool handles the doc_status MCP tool.
type StatusTool struct {
	manager *Manager
}

func NewStatusTool(m *Manager) *StatusTool {
	return &StatusTool{manager: m}
}

func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_status",
		mcp.WithDescription(
			"Show the state of an open editor: draft content, unsaved changes, "+
				"validation problems, and any pending conflict or stale-version flow. "+
				"Omit 'handle' to list all open editors.",
		),
		mcp.WithString("handle",
			mcp.Description("Editor handle from doc_open."),
		),
	)
}

func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	if handle == "" {
		handles := t.manager.Handles()
		if len(handles) == 0 {
			return mcp.NewToolResultText("No open editors."), nil
		}
		sort.Strings(handles)
		return mcp.NewToolResultText("Open editors: " + strings.Join(handles, ", ")), nil
	}

	// A status poll is the agent's moment of regained attention, so verify
	// freshness against the server before reporting.
	t.manager.CheckFresh(ctx, handle)

	var summary string
	err := t.manager.Do(handle, func(s *editor.Session) error {
		summary = renderStatus(handle, s)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary), nil
}

// renderStatus reports the parts of the session an agent needs in order to
// decide its next action. Caller holds the manager lock via Do.
func renderStatus(handle string, s *editor.Session) string {
	var b strings.Builder
	draft := s.Draft()

	fmt.Fprintf(&b, "Editor %s", handle)
	if draft.IsCreate {
		fmt.Fprintf(&b, " (new %s)", draft.Current.Type)
	} else {
		fmt.Fprintf(&b, " (%s %s)", draft.Current.Type, draft.ID)
	}
	fmt.Fprintf(&b, "\nState: %s", s.State())
	if s.Dirty() {
		b.WriteString(" | unsaved changes")
	}
	if s.PendingClose() {
		b.WriteString(" | close pending on save")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Name: %s\n", draft.Current.Name)
	if draft.Current.Type == editor.DocTypeBookmark {
		fmt.Fprintf(&b, "URL: %s\n", draft.Current.URL)
	}
	if len(draft.Current.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(draft.Current.Tags, ", "))
	}
	if len(draft.Current.Arguments) > 0 {
		names := make([]string, len(draft.Current.Arguments))
		for i, a := range draft.Current.Arguments {
			names[i] = a.Name
		}
		fmt.Fprintf(&b, "Arguments: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "Text: %d chars\n", len(draft.Current.Text))

	writeFields(&b, "Problems", s.FieldErrors())
	writeFields(&b, "Warnings", s.Warnings())
	if msg := s.Failure(); msg != "" {
		fmt.Fprintf(&b, "Last save failed: %s\n", msg)
	}

	if server := s.ConflictServer(); server != nil {
		fmt.Fprintf(&b, "Conflict: server copy changed at %s. Resolve with doc_resolve "+
			"(copy_mine, load_server, save_mine, dismiss).\n",
			server.UpdatedAt.Format(time.RFC3339))
		if s.ConflictConfirming() {
			b.WriteString("save_mine is armed: call it again to overwrite the server copy.\n")
		}
	}
	if stale := s.StaleInfo(); stale != nil {
		switch stale.Kind {
		case editor.StaleDeleted:
			b.WriteString("Stale: the document was deleted on the server. Resolve with " +
				"doc_resolve (copy_mine, go_back).\n")
		default:
			fmt.Fprintf(&b, "Stale: the server copy changed at %s while you were editing. "+
				"Resolve with doc_resolve (load_server, continue, copy_mine).\n",
				stale.ServerUpdatedAt.Format(time.RFC3339))
		}
	}
	if s.DiscardConfirming() {
		b.WriteString("Discard armed: call doc_discard again to drop unsaved changes.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeFields(b *strings.Builder, label string, r editor.Result) {
	if len(r) == 0 {
		return
	}
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	fmt.Fprintf(b, "%s:\n", label)
	for _, f := range fields {
		fmt.Fprintf(b, "  %s: %s\n", f, r[f])
	}
}
