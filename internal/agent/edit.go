package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkstone-app/inkstone/internal/editor"
)

// EditTool handles the doc_edit MCP tool: it applies field changes to the
// live draft. Edits never touch the server; doc_save does that.
type EditTool struct {
	manager *Manager
}

func NewEditTool(m *Manager) *EditTool {
	return &EditTool{manager: m}
}

func (t *EditTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_edit",
		mcp.WithDescription(
			"Change fields of an open draft. Only the fields passed are touched. "+
				"Changes stay local until doc_save.",
		),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Editor handle from doc_open."),
		),
		mcp.WithString("name", mcp.Description("New document name.")),
		mcp.WithString("text", mcp.Description("New body text (template text for prompts, note body for notes).")),
		mcp.WithString("url", mcp.Description("New URL (bookmarks only).")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag list, replacing the current tags. Empty string clears them.")),
		mcp.WithString("arguments", mcp.Description("JSON array of prompt arguments, e.g. [{\"name\":\"topic\",\"required\":true}]. Replaces the declared list.")),
		mcp.WithString("archive_at", mcp.Description("RFC3339 auto-archive time, or 'none' to clear it.")),
	)
}

func (t *EditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}

	var args *[]editor.Argument
	if raw := req.GetString("arguments", ""); raw != "" {
		var parsed []editor.Argument
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'arguments' is not a valid JSON array: %v", err)), nil
		}
		args = &parsed
	}

	var archiveAt *time.Time
	clearArchive := false
	if raw := req.GetString("archive_at", ""); raw != "" {
		if raw == "none" {
			clearArchive = true
		} else {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("'archive_at' is not RFC3339: %v", err)), nil
			}
			archiveAt = &at
		}
	}

	var summary string
	err := t.manager.Do(handle, func(s *editor.Session) error {
		if s.State() != editor.StateEditing {
			return fmt.Errorf("editor is in the %s flow; resolve it before editing", s.State())
		}
		s.Update(func(c *editor.Content) {
			if v, ok := req.GetArguments()["name"]; ok {
				c.Name, _ = v.(string)
			}
			if v, ok := req.GetArguments()["text"]; ok {
				c.Text, _ = v.(string)
			}
			if v, ok := req.GetArguments()["url"]; ok {
				c.URL, _ = v.(string)
			}
			if v, ok := req.GetArguments()["tags"]; ok {
				c.Tags = splitTags(v)
			}
			if args != nil {
				c.Arguments = *args
			}
			if clearArchive {
				c.ArchiveAt = nil
			} else if archiveAt != nil {
				c.ArchiveAt = archiveAt
			}
		})
		summary = renderStatus(handle, s)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func splitTags(v interface{}) []string {
	raw, _ := v.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
