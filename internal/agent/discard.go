package agent

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkstone-app/inkstone/internal/editor"
)

// DiscardTool handles the doc_discard MCP tool. With unsaved changes the
// first call arms a confirmation and the second call, within the confirm
// window, actually discards. A clean editor closes immediately.
type DiscardTool struct {
	manager *Manager
}

func NewDiscardTool(m *Manager) *DiscardTool {
	return &DiscardTool{manager: m}
}

func (t *DiscardTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_discard",
		mcp.WithDescription(
			"Close an open editor without saving. If the draft has unsaved "+
				"changes, the first call only arms a confirmation; call again "+
				"promptly to confirm dropping the changes.",
		),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Editor handle from doc_open."),
		),
	)
}

func (t *DiscardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}

	var summary string
	err := t.manager.Do(handle, func(s *editor.Session) error {
		s.RequestDiscard()
		switch {
		case s.Closed():
			summary = "Editor closed."
		case s.DiscardConfirming():
			summary = "The draft has unsaved changes. Call doc_discard again to drop them."
		default:
			summary = renderStatus(handle, s)
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary), nil
}
