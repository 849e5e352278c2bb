package score

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a score document from a .yaml, .yml or .json file.
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read score file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	slog.Debug("Loading score", "path", path, "format", ext, "size_bytes", len(data))

	s, err := Decode(data, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a score document. format is a file extension such as
// ".json" or ".yaml".
func Decode(data []byte, format string) (*Score, error) {
	var s Score
	switch strings.ToLower(format) {
	case ".json", "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	case ".yaml", ".yml", "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .yaml, .yml, .json)", format)
	}
	return &s, nil
}
