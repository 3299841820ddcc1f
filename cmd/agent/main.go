// inkstone-agent exposes inkstone document editing to MCP clients over the
// stdio transport. It talks to a running inkstone server through the same
// HTTP API the web surfaces use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/inkstone-app/inkstone/internal/agent"
	"github.com/inkstone-app/inkstone/internal/config"
	"github.com/inkstone-app/inkstone/internal/editor"
	pkgredis "github.com/inkstone-app/inkstone/internal/pkg/redis"
	"github.com/inkstone-app/inkstone/internal/watch"
)

func main() {
	var (
		configPath = flag.String("config", "config.yml", "path to the config file")
		baseURL    = flag.String("url", "", "inkstone server base URL (defaults to $INKSTONE_URL)")
		token      = flag.String("token", "", "API token (defaults to $INKSTONE_TOKEN)")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("inkstone-agent v%s\n", agent.Version)
		return
	}

	if *baseURL == "" {
		*baseURL = os.Getenv("INKSTONE_URL")
	}
	if *token == "" {
		*token = os.Getenv("INKSTONE_TOKEN")
	}
	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: no server URL; pass -url or set INKSTONE_URL")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so they never corrupt the stdio transport.
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// The change-event subscription makes open sessions learn about other
	// writers as they save. Without Redis the agent still works; staleness
	// is then discovered on status polls and save conflicts.
	var watcher *watch.Watcher
	if rc, err := pkgredis.Connect(cfg.RedisURL); err != nil {
		logger.Warn("redis unavailable, live change notifications disabled", zap.Error(err))
	} else {
		defer rc.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		watcher = watch.New(rc, logger)
		go watcher.Run(ctx)
	}

	s := agent.NewServer(agent.Options{
		BaseURL: *baseURL,
		Token:   *token,
		Watcher: watcher,
		Limits: editor.Limits{
			NameMaxLen:    cfg.Editing.NameMaxLen,
			TextMaxLen:    cfg.Editing.TextMaxLen,
			URLMaxLen:     cfg.Editing.URLMaxLen,
			TagMaxLen:     cfg.Editing.TagMaxLen,
			TagsMax:       cfg.Editing.TagsMax,
			ArgNameMaxLen: cfg.Editing.ArgNameMaxLen,
		},
		ConfirmWindow:  cfg.Editing.ConfirmWindow(),
		FeedbackWindow: cfg.Editing.FeedbackWindow(),
		Logger:         logger,
	})

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
