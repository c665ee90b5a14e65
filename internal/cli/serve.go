package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartkit/internal/server"
)

// serveFlags holds the flags of the serve command.
type serveFlags struct {
	addr     string
	watch    bool
	interval time.Duration
	cache    cacheOpts
}

// serveCommand creates the serve command for previewing charts in a browser.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Preview a chart definition file in the browser",
		Long: `Serve a preview page for a chart definition file.

With --watch the file is polled for changes, and open pages reload as soon as
the new charts are built. A broken edit keeps the previous charts online.`,
		Example: `  chartkit serve charts.toml --watch
  chartkit serve charts.yaml --addr 127.0.0.1:9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload when the file changes")
	cmd.Flags().DurationVar(&flags.interval, "interval", server.DefaultWatchInterval, "poll interval for --watch")
	flags.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, path string, flags serveFlags) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(server.FileSource(path), runner, logger)
	if err := srv.Reload(ctx); err != nil {
		return err
	}

	printSuccess("Serving %s", path)
	printKeyValue("URL", StyleLink.Render(serveURL(flags.addr)))
	if flags.watch {
		printKeyValue("Watching", fmt.Sprintf("every %s", flags.interval))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ctx, flags.addr) })
	if flags.watch {
		g.Go(func() error { return srv.Watch(ctx, path, flags.interval) })
	}
	return g.Wait()
}

// serveURL turns a listen address into a URL for the terminal.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
