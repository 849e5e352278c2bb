package evalcmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scale = `
staves:
  - measures:
      - number: 1
        voices:
          - events:
              - {offset: 0, type: quarter, pitches: [{step: C, octave: 4}]}
              - {offset: 1, type: quarter, pitches: [{step: D, octave: 4}]}
              - {offset: 2, type: quarter, pitches: [{step: E, octave: 4}]}
              - {offset: 3, type: quarter, pitches: [{step: F, octave: 4}]}
`

const scaleWithRest = `
staves:
  - measures:
      - number: 1
        voices:
          - events:
              - {offset: 0, type: quarter, pitches: [{step: C, octave: 4}]}
              - {offset: 1, type: quarter, pitches: [{step: D, octave: 4}]}
              - {offset: 2, type: quarter, pitches: [{step: E, octave: 4}]}
              - {offset: 3, type: quarter, rest: true}
`

func writeTree(t *testing.T) (gt, pred string) {
	t.Helper()
	root := t.TempDir()
	gt = filepath.Join(root, "gt")
	pred = filepath.Join(root, "pred")
	require.NoError(t, os.MkdirAll(gt, 0755))
	require.NoError(t, os.MkdirAll(pred, 0755))

	files := map[string]string{
		filepath.Join(gt, "exact.yaml"):   scale,
		filepath.Join(pred, "exact.yaml"): scale,
		filepath.Join(gt, "rest.yaml"):    scale,
		filepath.Join(pred, "rest.yaml"):  scaleWithRest,
		filepath.Join(gt, "orphan.yaml"):  scale,
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return gt, pred
}

func TestExecuteRun(t *testing.T) {
	gt, pred := writeTree(t)
	out := t.TempDir()

	var buf bytes.Buffer
	agg, err := executeRun(context.Background(), runOptions{
		GroundTruthDir: gt,
		PredictedDir:   pred,
		Sample:         -1,
		Concurrency:    2,
		OutputDir:      out,
		Parquet:        true,
	}, &buf)
	require.NoError(t, err)

	require.Len(t, agg.Results, 3)
	assert.Equal(t, "exact", agg.Results[0].ID)
	assert.Equal(t, 0, agg.Results[0].Record.NumSymbolErrors)
	assert.Equal(t, "orphan", agg.Results[1].ID)
	assert.NotEmpty(t, agg.Results[1].Error)
	assert.Equal(t, "rest", agg.Results[2].ID)
	// rest deleted, F4 inserted
	assert.Equal(t, 2, agg.Results[2].Record.NumSymbolErrors)

	assert.Equal(t, 2, agg.Summary.SuccessfulPairs)
	assert.Equal(t, 1, agg.Summary.FailedPairs)
	assert.Equal(t, 8, agg.Summary.SymbolsInGT)
	assert.InDelta(t, 0.25, agg.Summary.OverallSER, 1e-9)
	assert.Equal(t, "notesandrests,beams,tremolos,ornaments,articulations,ties,slurs,signatures,directions,barlines,staffdetails,chordsymbols,ottavas,arpeggios,lyrics", agg.Detail)

	for _, name := range []string{"results.json", "report.txt", agg.RunID + ".yaml", "results.parquet"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Contains(t, buf.String(), "Total Pairs: 3")
}

func TestExecuteRunRejectsUnknownDetail(t *testing.T) {
	gt, pred := writeTree(t)
	_, err := executeRun(context.Background(), runOptions{
		GroundTruthDir: gt,
		PredictedDir:   pred,
		Sample:         -1,
		OutputDir:      t.TempDir(),
		Compare:        comparing.Config{Include: []string{"dynamics"}},
	}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExecuteRunManifest(t *testing.T) {
	gt, _ := writeTree(t)
	manifest := filepath.Join(filepath.Dir(gt), "pairs.jsonl")
	require.NoError(t, os.WriteFile(manifest, []byte(
		`{"id":"r","predicted":"pred/rest.yaml","ground_truth":"gt/rest.yaml"}`+"\n"), 0644))

	agg, err := executeRun(context.Background(), runOptions{
		Manifest:    manifest,
		Sample:      -1,
		Concurrency: 1,
		OutputDir:   t.TempDir(),
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, agg.Results, 1)
	assert.Empty(t, agg.Results[0].Error)
	assert.Equal(t, 2, agg.Summary.SymbolErrors)
}

func TestExecuteReport(t *testing.T) {
	gt, pred := writeTree(t)
	out := t.TempDir()
	_, err := executeRun(context.Background(), runOptions{
		GroundTruthDir: gt,
		PredictedDir:   pred,
		Sample:         2,
		Concurrency:    1,
		OutputDir:      out,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, executeReport(out, "csv", &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "exact", rows[1][0])
	assert.Equal(t, "0.0000", rows[1][5])
	assert.Equal(t, "orphan", rows[2][0])
	assert.NotEmpty(t, rows[2][7])

	buf.Reset()
	require.NoError(t, executeReport(out, "text", &buf))
	assert.Contains(t, buf.String(), "PAIR 1: exact")

	buf.Reset()
	require.NoError(t, executeReport(out, "json", &buf))
	assert.Contains(t, buf.String(), `"run_id"`)

	assert.Error(t, executeReport(out, "xml", &buf))
}
