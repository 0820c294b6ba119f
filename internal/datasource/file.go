package datasource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileSource reads a static JSON or YAML catalog from disk.
type FileSource struct {
	Path  string
	Delay time.Duration
	log   *zap.Logger
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, log: zap.NewNop()}
}

func (s *FileSource) String() string { return s.Path }

// Load reads and decodes the catalog. A configured Delay is waited out first
// and is cut short by ctx.
func (s *FileSource) Load(ctx context.Context) ([]catalog.Agent, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, loadErr(s, ctx.Err())
		case <-t.C:
		}
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, loadErr(s, err)
	}

	var agents []catalog.Agent
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		agents, err = decodeYAML(data)
	default:
		agents, err = decodeJSON(data)
	}
	if err != nil {
		return nil, loadErr(s, err)
	}

	agents, err = catalog.Normalize(agents)
	if err != nil {
		return nil, loadErr(s, err)
	}
	if s.log != nil {
		s.log.Debug("read catalog file", zap.String("path", s.Path), zap.Int("records", len(agents)))
	}
	return agents, nil
}

// envelope is the object form of a payload: {"agents": [...]}.
type envelope struct {
	Agents []catalog.Agent `json:"agents" yaml:"agents"`
}

// decodeJSON accepts either a bare array of records or an envelope object.
func decodeJSON(data []byte) ([]catalog.Agent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		return env.Agents, nil
	}
	var agents []catalog.Agent
	if err := json.Unmarshal(trimmed, &agents); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	return agents, nil
}

// decodeYAML accepts either a sequence of records or an "agents:" mapping.
func decodeYAML(data []byte) ([]catalog.Agent, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var agents []catalog.Agent
		if err := root.Decode(&agents); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		return agents, nil
	case yaml.MappingNode:
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		return env.Agents, nil
	}
	return nil, fmt.Errorf("malformed payload: expected a list of agents")
}
