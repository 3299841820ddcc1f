package agent

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkstone-app/inkstone/internal/editor"
)

// SaveTool handles the doc_save MCP tool. A conflicting save is not an
// error: the session moves into the conflict flow and the status says so.
type SaveTool struct {
	manager *Manager
}

func NewSaveTool(m *Manager) *SaveTool {
	return &SaveTool{manager: m}
}

func (t *SaveTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_save",
		mcp.WithDescription(
			"Save an open draft to the server. If another writer changed the "+
				"document since it was opened, the editor enters a conflict flow "+
				"instead of overwriting; see doc_resolve. Pass close=true to also "+
				"close the editor once the save lands.",
		),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Editor handle from doc_open."),
		),
		mcp.WithBoolean("close",
			mcp.Description("Close the editor after a successful save."),
		),
	)
}

func (t *SaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}
	close := req.GetBool("close", false)

	var summary string
	err := t.manager.Do(handle, func(s *editor.Session) error {
		var err error
		if close {
			err = s.RequestSaveAndClose(ctx)
		} else {
			err = s.Submit(ctx, editor.TriggerSubmit)
		}

		switch {
		case errors.Is(err, editor.ErrNothingToSave):
			summary = "Nothing to save: the draft matches the last saved version."
			return nil
		case errors.Is(err, editor.ErrInvalid):
			summary = "The draft has validation problems; fix them and save again.\n\n" + renderStatus(handle, s)
			return nil
		case err != nil:
			return err
		}

		if s.Closed() {
			summary = "Saved and closed."
			return nil
		}
		summary = renderStatus(handle, s)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary), nil
}
