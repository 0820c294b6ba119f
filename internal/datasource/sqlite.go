package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
)

// Schema is the table layout SQLiteSource reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS agents (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT '',
	pricing_model TEXT NOT NULL DEFAULT ''
)`

// SQLiteSource reads the catalog from the agents table of a SQLite database.
type SQLiteSource struct {
	Path string
	log  *zap.Logger
}

func (s *SQLiteSource) String() string { return s.Path }

// Load opens the database read-only and returns every row in insertion order.
func (s *SQLiteSource) Load(ctx context.Context) ([]catalog.Agent, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, loadErr(s, err)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(s.Path))
	if err != nil {
		return nil, loadErr(s, fmt.Errorf("opening sqlite: %w", err))
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, category, status, pricing_model
		 FROM agents ORDER BY rowid`)
	if err != nil {
		return nil, loadErr(s, fmt.Errorf("querying agents: %w", err))
	}
	defer rows.Close()

	var agents []catalog.Agent
	for rows.Next() {
		var a catalog.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Status, &a.PricingModel); err != nil {
			return nil, loadErr(s, fmt.Errorf("scanning agent: %w", err))
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, loadErr(s, err)
	}

	agents, err = catalog.Normalize(agents)
	if err != nil {
		return nil, loadErr(s, err)
	}
	if s.log != nil {
		s.log.Debug("read catalog database", zap.String("path", s.Path), zap.Int("records", len(agents)))
	}
	return agents, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. Characters such as
// '?' and '#' in the path are escaped.
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}
	return u.String()
}
