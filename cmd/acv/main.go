// acv is a terminal catalog browser for AI agent records.
//
// It loads the catalog from a JSON/YAML file, an HTTP endpoint or a SQLite
// database and lets the user narrow it down by search text, status,
// category and pricing model, sorted by any record field.
//
// Usage:
//
//	acv                              # Auto-discover mock-agents.json
//	acv --catalog <path|url>         # Use a specific catalog
//	acv --json                       # Dump the filtered catalog as JSON and exit
//	acv --status Active --sort category
//	acv --agent <id>                 # Open an agent's detail view on startup
//	acv --watch                      # Reload when the catalog file changes
//	acv --version                    # Print version and exit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
	"github.com/daviddao/agents_catalog_viewer/internal/config"
	"github.com/daviddao/agents_catalog_viewer/internal/datasource"
	"github.com/daviddao/agents_catalog_viewer/internal/observability"
	"github.com/daviddao/agents_catalog_viewer/internal/viewstate"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// cliOptions holds flags that are not part of the persisted configuration.
type cliOptions struct {
	configPath string
	jsonMode   bool
	agent      string
	version    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "acv: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var opts cliOptions

	cmd := &cobra.Command{
		Use:           "acv",
		Short:         "Browse, filter and sort an AI agents catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(cmd.OutOrStdout(), "acv %s\n", Version)
				return nil
			}
			cfg, err := config.Load(v, opts.configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ./acv.yaml)")
	f.BoolVar(&opts.jsonMode, "json", false, "dump the filtered catalog as JSON and exit (no TUI)")
	f.StringVar(&opts.agent, "agent", "", "open the detail view of an agent id on startup")
	f.BoolVar(&opts.version, "version", false, "print version and exit")

	f.String("catalog", "", "catalog file, SQLite database or http(s) URL (default: auto-discover)")
	f.Duration("delay", 0, "simulated load latency for file catalogs")
	f.Bool("watch", false, "reload when the catalog file changes")
	f.Duration("refresh", 0, "polling reload interval when watching (0 disables)")
	f.String("query", "", "initial search text")
	f.String("sort", string(catalog.SortByName), "initial sort key (name|category|status|pricingModel)")
	f.StringSlice("status", nil, "initial status filter (repeatable)")
	f.StringSlice("category", nil, "initial category filter (repeatable)")
	f.String("pricing", catalog.PricingAll, "initial pricing model filter")
	f.String("log-file", "", "write logs to this file")
	f.String("log-level", "info", "log level (debug|info|warn|error)")

	for key, flag := range map[string]string{
		"catalog.source":  "catalog",
		"catalog.delay":   "delay",
		"catalog.watch":   "watch",
		"catalog.refresh": "refresh",
		"ui.query":        "query",
		"ui.sort":         "sort",
		"ui.statuses":     "status",
		"ui.categories":   "category",
		"ui.pricing":      "pricing",
		"logger.log_file": "log-file",
		"logger.level":    "log-level",
	} {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag --%s: %v", flag, err))
		}
	}
	return cmd
}

func run(ctx context.Context, stdout io.Writer, cfg config.Config, opts cliOptions) error {
	log := observability.NewLogger(cfg.Logger)
	defer log.Sync()

	src, err := datasource.Open(cfg.Catalog.Source, datasource.Options{
		Delay:       cfg.Catalog.Delay,
		HTTPTimeout: cfg.HTTP.Timeout,
		RetryMax:    cfg.HTTP.RetryMax,
		Logger:      log.Named("datasource"),
	})
	if err != nil {
		return err
	}
	log.Info("catalog source selected", zap.Stringer("source", src))

	state := viewstate.New(log.Named("viewstate"))
	applyCriteria(state, cfg.UI.Criteria())

	// --json mode: load, print, exit.
	if opts.jsonMode {
		return writeJSON(ctx, stdout, state, src, cfg.Catalog.Timeout, opts.agent)
	}

	var w *datasource.Watcher
	if cfg.Catalog.Watch {
		if _, ok := datasource.Watchable(src); !ok {
			return fmt.Errorf("--watch needs a local catalog, got %s", src)
		}
		w, err = datasource.NewWatcher(src, log.Named("watch"))
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Close()
	}

	m := newModel(state, src, modelOptions{
		loadTimeout:   cfg.Catalog.Timeout,
		markdownStyle: cfg.UI.MarkdownStyle,
		focusAgent:    opts.agent,
		log:           log.Named("ui"),
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(runCtx))

	// Feed catalog change events into the TUI.
	if w != nil {
		go func() {
			for {
				select {
				case <-runCtx.Done():
					return
				case <-w.Changes():
					p.Send(catalogChangedMsg{})
				}
			}
		}()
		// Polling fallback in case fsnotify misses events.
		if cfg.Catalog.Refresh > 0 {
			go func() {
				ticker := time.NewTicker(cfg.Catalog.Refresh)
				defer ticker.Stop()
				for {
					select {
					case <-runCtx.Done():
						return
					case <-ticker.C:
						p.Send(catalogChangedMsg{})
					}
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// applyCriteria seeds state with the criteria given on the command line.
func applyCriteria(s *viewstate.State, c catalog.Criteria) {
	s.SetSearchQuery(c.SearchQuery)
	s.SetSortKey(c.SortBy)
	s.SetPricingModelFilter(c.PricingModel)
	s.SetStatusFilters(c.Statuses)
	s.SetCategoryFilters(c.Categories)
}
