package comparing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/detail"
	"github.com/lehigh-university-libraries/scorediff/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const truthDoc = `
staves:
  - measures:
      - number: 1
        objects:
          - kind: clef
            sign: G
            line: 2
        voices:
          - events:
              - {offset: 0, type: half, pitches: [{step: C, octave: 4}]}
              - {offset: 2, type: half, pitches: [{step: E, octave: 4}]}
`

const predictedDoc = `
staves:
  - measures:
      - number: 1
        objects:
          - kind: clef
            sign: G
            line: 2
          - kind: glissando
        voices:
          - events:
              - {offset: 0, type: half, pitches: [{step: C, octave: 4}]}
              - {offset: 2, type: half, pitches: [{step: F, octave: 4}]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	truth := writeFile(t, dir, "truth.yaml", truthDoc)
	predicted := writeFile(t, dir, "omr.yaml", predictedDoc)

	svc, err := NewService(Config{}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, detail.AllObjects, svc.Level())

	cmp, err := svc.CompareFiles(predicted, truth)
	require.NoError(t, err)

	// F4 deleted, E4 inserted
	assert.Equal(t, 2, cmp.Record.NumSymbolErrors)
	assert.Equal(t, 3, cmp.Record.NumSymbolsInGroundTruth)
	assert.InDelta(t, 2.0/3.0, cmp.Record.SER, 1e-9)
	assert.Equal(t, predicted, cmp.Record.Score1)
	assert.Equal(t, truth, cmp.Record.Score2)
	require.Len(t, cmp.Notices, 1)
	assert.Contains(t, cmp.Notices[0], "glissando")
}

func TestNewServiceRejectsUnknownCategory(t *testing.T) {
	_, err := NewService(Config{Include: []string{"notesandrests", "harmonies"}}, logging.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, detail.ErrFilterConflict))

	_, err = NewService(Config{MeasureAlignment: "greedy"}, logging.NewNop())
	assert.Error(t, err)
}

func TestCompareMalformed(t *testing.T) {
	dir := t.TempDir()
	truth := writeFile(t, dir, "truth.yaml", truthDoc)
	bad := writeFile(t, dir, "bad.yaml", `
staves:
  - measures:
      - voices:
          - events:
              - {offset: -1, type: quarter, rest: true}
`)

	svc, err := NewService(Config{}, logging.NewNop())
	require.NoError(t, err)

	_, err = svc.CompareFiles(bad, truth)
	require.Error(t, err)
	assert.ErrorIs(t, err, annotation.ErrMalformedInput)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SCOREDIFF_DETAIL", "notesandrests, ties")
	t.Setenv("SCOREDIFF_EXCLUDE", "")
	t.Setenv("SCOREDIFF_MEASURE_ALIGNMENT", "positional")

	cfg := ConfigFromEnv()
	assert.Equal(t, []string{"notesandrests", "ties"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, "positional", cfg.MeasureAlignment)
}

func TestWithEnvDefaults(t *testing.T) {
	t.Setenv("SCOREDIFF_DETAIL", "notesandrests")
	t.Setenv("SCOREDIFF_EXCLUDE", "beams")
	t.Setenv("SCOREDIFF_MEASURE_ALIGNMENT", "")

	cfg := Config{Include: []string{"allobjects"}}.WithEnvDefaults()
	assert.Equal(t, []string{"allobjects"}, cfg.Include)
	assert.Equal(t, []string{"beams"}, cfg.Exclude)
	assert.Empty(t, cfg.MeasureAlignment)
}
