package agent

import (
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/inkstone-app/inkstone/internal/client"
	"github.com/inkstone-app/inkstone/internal/editor"
	"github.com/inkstone-app/inkstone/internal/pkg/clipboard"
	"github.com/inkstone-app/inkstone/internal/watch"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options configure the agent server.
type Options struct {
	BaseURL string
	Token   string

	// Watcher, when set, pushes document change events into open sessions.
	// Without it staleness is only discovered on status polls and saves.
	Watcher *watch.Watcher

	Limits         editor.Limits
	ConfirmWindow  time.Duration
	FeedbackWindow time.Duration
	Logger         *zap.Logger
}

// NewServer wires the MCP server: one HTTP client against the inkstone API,
// one session manager, and the doc_* tools on top. Nothing here carries
// business logic.
func NewServer(opts Options) *server.MCPServer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	api := client.New(opts.BaseURL, opts.Token)
	manager := NewManager(Deps{
		Saver:          api,
		Refresher:      api,
		Clipboard:      clipboard.New(os.Stderr),
		Watcher:        opts.Watcher,
		Limits:         opts.Limits,
		Logger:         opts.Logger,
		ConfirmWindow:  opts.ConfirmWindow,
		FeedbackWindow: opts.FeedbackWindow,
	})

	s := server.NewMCPServer(
		"inkstone",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Edit inkstone documents (prompts, notes, bookmarks) through real "+
				"editing sessions. Open with doc_open, change fields with doc_edit, "+
				"persist with doc_save. Saves use optimistic concurrency: when "+
				"another writer got there first you land in a conflict flow and "+
				"must choose a resolution with doc_resolve.",
		),
	)

	openTool := NewOpenTool(manager)
	s.AddTool(openTool.Definition(), openTool.Handle)

	editTool := NewEditTool(manager)
	s.AddTool(editTool.Definition(), editTool.Handle)

	statusTool := NewStatusTool(manager)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	saveTool := NewSaveTool(manager)
	s.AddTool(saveTool.Definition(), saveTool.Handle)

	resolveTool := NewResolveTool(manager)
	s.AddTool(resolveTool.Definition(), resolveTool.Handle)

	discardTool := NewDiscardTool(manager)
	s.AddTool(discardTool.Definition(), discardTool.Handle)

	return s
}
