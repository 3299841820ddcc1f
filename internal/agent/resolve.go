package agent

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkstone-app/inkstone/internal/editor"
)

// ResolveTool handles the doc_resolve MCP tool: the resolution actions of
// the conflict and stale flows.
type ResolveTool struct {
	manager *Manager
}

func NewResolveTool(m *Manager) *ResolveTool {
	return &ResolveTool{manager: m}
}

func (t *ResolveTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_resolve",
		mcp.WithDescription(
			"Resolve a pending conflict or stale-version flow. Conflict actions: "+
				"copy_mine (copy your text to the clipboard), load_server (replace the "+
				"draft with the server copy), save_mine (overwrite the server; must be "+
				"called twice to confirm), dismiss (return to editing unresolved). "+
				"Stale actions: load_server, continue (keep editing the old baseline), "+
				"copy_mine, go_back (close; only exit when the document was deleted).",
		),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Editor handle from doc_open."),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Resolution action."),
			mcp.Enum("copy_mine", "load_server", "save_mine", "dismiss", "continue", "go_back"),
		),
	)
}

func (t *ResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	action := req.GetString("action", "")
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}

	var summary string
	err := t.manager.Do(handle, func(s *editor.Session) error {
		switch s.State() {
		case editor.StateConflict:
			return t.resolveConflict(ctx, s, action)
		case editor.StateStale:
			return t.resolveStale(ctx, s, action)
		default:
			return fmt.Errorf("nothing to resolve: editor is in the %s state", s.State())
		}
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	derr := t.manager.Do(handle, func(s *editor.Session) error {
		summary = renderStatus(handle, s)
		return nil
	})
	if derr != nil {
		// The action closed the editor (go_back, or a confirmed save_mine
		// with a pending close).
		summary = "Editor closed."
	}
	return mcp.NewToolResultText(summary), nil
}

func (t *ResolveTool) resolveConflict(ctx context.Context, s *editor.Session, action string) error {
	switch action {
	case "copy_mine":
		s.ConflictCopyMine(ctx)
	case "load_server":
		s.ConflictLoadServer()
	case "save_mine":
		return s.ConflictSaveMine(ctx)
	case "dismiss":
		s.ConflictDismiss()
	default:
		return fmt.Errorf("action %q does not apply to a conflict", action)
	}
	return nil
}

func (t *ResolveTool) resolveStale(ctx context.Context, s *editor.Session, action string) error {
	switch action {
	case "copy_mine":
		s.StaleCopyMine(ctx)
	case "load_server":
		return s.StaleLoadServer(ctx)
	case "continue":
		if s.StaleInfo() != nil && s.StaleInfo().Kind == editor.StaleDeleted {
			return fmt.Errorf("the document was deleted; 'continue' is not available")
		}
		s.StaleContinue()
	case "go_back":
		s.StaleGoBack()
	default:
		return fmt.Errorf("action %q does not apply to a stale version", action)
	}
	return nil
}
