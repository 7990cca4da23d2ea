package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// jsonBackend stores the completion record as a single JSON file:
//
//	{"processed": {"<document id>": {"promoted": true}}}
type jsonBackend struct {
	path string
}

type jsonState struct {
	Processed map[string]Entry `json:"processed"`
}

// Load reads the record file. A missing or unparseable file is treated as an
// empty record; a past crash or hand-edit must never block a run.
func (j *jsonBackend) Load() (map[string]Entry, error) {
	raw, err := os.ReadFile(j.path)
	if err != nil {
		return map[string]Entry{}, nil
	}

	var state jsonState
	if err := json.Unmarshal(raw, &state); err != nil {
		return map[string]Entry{}, nil
	}
	if state.Processed == nil {
		return map[string]Entry{}, nil
	}
	return state.Processed, nil
}

// Save writes the full record, creating the parent directory when needed.
func (j *jsonBackend) Save(entries map[string]Entry) error {
	dir := filepath.Dir(j.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(jsonState{Processed: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode completion cache: %w", err)
	}
	raw = append(raw, '\n')

	if err := os.WriteFile(j.path, raw, 0o600); err != nil {
		return fmt.Errorf("write completion cache: %w", err)
	}
	return nil
}

func (j *jsonBackend) Close() error { return nil }
