package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// scoreExtensions are the document formats the score loader understands,
// in lookup preference order.
var scoreExtensions = []string{".yaml", ".yml", ".json"}

// Loader reads a manifest of pairs. Relative paths in the manifest are
// resolved against the manifest's directory.
type Loader struct {
	manifestPath string
}

func NewLoader(manifestPath string) *Loader {
	return &Loader{
		manifestPath: manifestPath,
	}
}

// Load loads pairs from a manifest file (JSONL or Parquet)
func (l *Loader) Load() ([]Pair, error) {
	return l.LoadSample(-1)
}

// LoadSample loads at most limit pairs. A negative limit loads everything.
func (l *Loader) LoadSample(limit int) ([]Pair, error) {
	ext := strings.ToLower(filepath.Ext(l.manifestPath))

	var (
		pairs []Pair
		err   error
	)
	switch ext {
	case ".parquet":
		pairs, err = l.loadParquet(limit)
	case ".jsonl", ".json":
		pairs, err = l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(l.manifestPath)
	for i := range pairs {
		pairs[i] = pairs[i].resolve(dir)
	}
	return pairs, nil
}

func (l *Loader) loadJSONL(limit int) ([]Pair, error) {
	slog.Debug("Opening JSONL manifest", "path", l.manifestPath)

	file, err := os.Open(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var pairs []Pair
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		if limit >= 0 && len(pairs) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var pair Pair
		if err := json.Unmarshal(line, &pair); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		pairs = append(pairs, pair)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	slog.Debug("Finished reading JSONL manifest", "pairs", len(pairs), "lines", lineNum)

	return pairs, nil
}

func (l *Loader) loadParquet(limit int) ([]Pair, error) {
	slog.Debug("Opening Parquet manifest", "path", l.manifestPath)

	file, err := os.Open(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Pair](pf)
	defer reader.Close()

	var pairs []Pair
	rows := make([]Pair, 128)

	for limit < 0 || len(pairs) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			if limit >= 0 && n > limit-len(pairs) {
				n = limit - len(pairs)
			}
			pairs = append(pairs, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet manifest", "pairs", len(pairs))

	return pairs, nil
}

// Discover pairs every score document in gtDir with the prediction in
// predDir that has the same file stem. A ground truth without a prediction
// yields a pair with an empty Predicted path so the run can record it as a
// failure. Pairs are sorted by ID.
func Discover(predDir, gtDir string) ([]Pair, error) {
	truths, err := scoreFiles(gtDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read ground truth directory: %w", err)
	}
	predictions, err := scoreFiles(predDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction directory: %w", err)
	}

	pairs := make([]Pair, 0, len(truths))
	for id, gt := range truths {
		pairs = append(pairs, Pair{
			ID:          id,
			Predicted:   predictions[id],
			GroundTruth: gt,
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].ID < pairs[j].ID })

	slog.Debug("Discovered pairs", "ground_truth", gtDir, "predicted", predDir, "pairs", len(pairs))
	return pairs, nil
}

// scoreFiles maps file stem to path for the score documents in dir. When a
// stem exists in several formats the earlier entry of scoreExtensions wins.
func scoreFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	rank := func(path string) int {
		ext := strings.ToLower(filepath.Ext(path))
		for i, e := range scoreExtensions {
			if e == ext {
				return i
			}
		}
		return -1
	}

	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		r := rank(name)
		if r < 0 {
			continue
		}
		id := stem(name)
		if prev, ok := files[id]; ok && rank(prev) <= r {
			continue
		}
		files[id] = filepath.Join(dir, name)
	}
	return files, nil
}
