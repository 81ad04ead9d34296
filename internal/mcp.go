package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/starford/inkwell/internal/mcpserver"
)

// RunMCP starts the MCP server on stdio. Logs go to stderr so they do not
// corrupt the protocol stream on stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{logOutput: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	c, err := buildComponents(app, nil)
	if err != nil {
		return err
	}
	defer c.close()

	srv := mcpserver.New(c.db, c.imp)
	return srv.ServeStdio()
}
