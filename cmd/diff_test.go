package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const truthYAML = `
metadata:
  - {key: title, value: Minuet}
staves:
  - measures:
      - number: 1
        voices:
          - events:
              - {offset: 0, type: half, pitches: [{step: G, octave: 4}]}
              - {offset: 2, type: half, pitches: [{step: A, octave: 4}]}
`

const predictedYAML = `
metadata:
  - {key: title, value: Minuet}
staves:
  - measures:
      - number: 1
        voices:
          - events:
              - {offset: 0, type: half, pitches: [{step: G, octave: 4}]}
              - {offset: 2, type: quarter, pitches: [{step: A, octave: 4}]}
`

func writeScores(t *testing.T) (pred, truth string) {
	t.Helper()
	dir := t.TempDir()
	pred = filepath.Join(dir, "omr.yaml")
	truth = filepath.Join(dir, "truth.yaml")
	require.NoError(t, os.WriteFile(pred, []byte(predictedYAML), 0644))
	require.NoError(t, os.WriteFile(truth, []byte(truthYAML), 0644))
	return pred, truth
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestDiffText(t *testing.T) {
	pred, truth := writeScores(t)

	out, err := run(t, "diff", pred, truth, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "--- "+pred)
	assert.Contains(t, out, "@@ measure 1, staff 1, beat 3 @@")
	assert.Contains(t, out, "-(Note:head) A4 (quarter note)")
	assert.Contains(t, out, "+(Note:head) A4 (half note)")
}

func TestDiffSER(t *testing.T) {
	pred, truth := writeScores(t)

	out, err := run(t, "diff", pred, truth, "--output", "ser")
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, 2.0, rec["numSymbolErrors"])
	assert.Equal(t, 2.0, rec["numSymbolsInGroundTruth"])
	assert.Equal(t, pred, rec["score1"])
}

func TestDiffRejectsUnknownDetail(t *testing.T) {
	pred, truth := writeScores(t)

	_, err := run(t, "diff", pred, truth, "--detail", "harmonies")
	assert.ErrorContains(t, err, "harmonies")

	_, err = run(t, "diff", pred, truth, "--output", "pdf")
	assert.Error(t, err)
}

func TestDiffEnvironmentDefaults(t *testing.T) {
	pred, truth := writeScores(t)
	t.Setenv("SCOREDIFF_DETAIL", "metadata")

	out, err := run(t, "diff", pred, truth, "--output", "ser")
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, 0.0, rec["numSymbolErrors"])
	assert.Equal(t, "metadata", rec["detail"])
}
