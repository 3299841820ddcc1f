package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkstone-app/inkstone/internal/editor"
)

// OpenTool handles the doc_open MCP tool: it starts an editing session for
// an existing document, or a create draft when no id is given.
type OpenTool struct {
	manager *Manager
}

func NewOpenTool(m *Manager) *OpenTool {
	return &OpenTool{manager: m}
}

func (t *OpenTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_open",
		mcp.WithDescription(
			"Open a document for editing. Pass 'id' to edit an existing document, "+
				"or 'type' alone to start a new one. Returns the editor handle used "+
				"by the other doc_* tools.",
		),
		mcp.WithString("id",
			mcp.Description("Document id to edit. Omit to create a new document."),
		),
		mcp.WithString("type",
			mcp.Description("Document type for a new document."),
			mcp.Enum("prompt", "note", "bookmark"),
		),
	)
}

func (t *OpenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	docType := req.GetString("type", "")

	if id == "" {
		if docType == "" {
			return mcp.NewToolResultError("either 'id' or 'type' is required"), nil
		}
		handle := t.manager.OpenCreate(editor.DocType(docType))
		return mcp.NewToolResultText(fmt.Sprintf("Opened new %s draft. Handle: %s", docType, handle)), nil
	}

	handle, err := t.manager.Open(ctx, id)
	if errors.Is(err, editor.ErrDeleted) {
		return mcp.NewToolResultError(fmt.Sprintf("document %s no longer exists", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}

	var summary string
	t.manager.Do(handle, func(s *editor.Session) error {
		summary = renderStatus(handle, s)
		return nil
	})
	return mcp.NewToolResultText(summary), nil
}
