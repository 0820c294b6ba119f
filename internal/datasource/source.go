// Package datasource discovers and reads the agent catalog.
//
// A catalog can live in a JSON or YAML file, behind an HTTP endpoint serving
// the static JSON payload, or in a SQLite database. Each kind implements
// Source; Open picks one from a reference string.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
)

// EnvCatalog overrides catalog discovery.
const EnvCatalog = "ACV_CATALOG"

// defaultCatalogs are the file names Discover looks for, in priority order.
var defaultCatalogs = []string{"mock-agents.json", "agents.json", "agents.yaml", "agents.yml"}

// ErrNoCatalog is returned by Discover when nothing was found.
var ErrNoCatalog = errors.New("no agent catalog found")

// Source produces the full agent record collection.
type Source interface {
	Load(ctx context.Context) ([]catalog.Agent, error)
	// String names the source for status lines and error messages.
	String() string
}

// LoadError is the single failure class of a catalog load. Its message is
// meant to be shown to the user as is.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load agents from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(src Source, err error) error {
	return &LoadError{Source: src.String(), Err: err}
}

// Options tune the sources created by Open.
type Options struct {
	// Delay is an artificial latency added before a file load completes.
	Delay time.Duration
	// HTTPTimeout bounds each HTTP attempt.
	HTTPTimeout time.Duration
	// RetryMax is the number of HTTP retries after the first attempt.
	RetryMax int
	Logger   *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Discover finds the catalog reference.
// Priority: ACV_CATALOG env var > a default catalog file in CWD > walk up parents.
func Discover() (string, error) {
	if env := os.Getenv(EnvCatalog); env != "" {
		if isURL(env) {
			return env, nil
		}
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("%s=%q: %w", EnvCatalog, env, os.ErrNotExist)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		for _, name := range defaultCatalogs {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w (looked for %s)", ErrNoCatalog, strings.Join(defaultCatalogs, ", "))
}

// Open returns the Source for ref. An empty ref means Discover.
// URLs become HTTP sources, .db/.sqlite/.sqlite3 files SQLite sources and
// everything else a file source.
func Open(ref string, opts Options) (Source, error) {
	if ref == "" {
		found, err := Discover()
		if err != nil {
			return nil, err
		}
		ref = found
	}

	log := opts.logger()
	switch {
	case isURL(ref):
		return NewHTTPSource(ref, opts), nil
	case isSQLite(ref):
		return &SQLiteSource{Path: ref, log: log.Named("sqlite")}, nil
	default:
		abs, err := filepath.Abs(ref)
		if err != nil {
			return nil, fmt.Errorf("resolve absolute path for %s: %w", ref, err)
		}
		return &FileSource{Path: abs, Delay: opts.Delay, log: log.Named("file")}, nil
	}
}

// Watchable reports the local path backing src, if any.
func Watchable(src Source) (string, bool) {
	switch s := src.(type) {
	case *FileSource:
		return s.Path, true
	case *SQLiteSource:
		return s.Path, true
	}
	return "", false
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func isSQLite(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
