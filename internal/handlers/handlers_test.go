package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/lehigh-university-libraries/scorediff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diffBody = `{
  "predicted_name": "omr.json",
  "ground_truth_name": "truth.json",
  "predicted": {"staves": [{"measures": [{"number": 1, "voices": [{"events": [
    {"offset": 0, "type": "half", "pitches": [{"step": "C", "octave": 4, "tie": "start"}]},
    {"offset": 2, "type": "half", "pitches": [{"step": "C", "octave": 4, "tie": "stop"}]}
  ]}]}]}]},
  "ground_truth": {"staves": [{"measures": [{"number": 1, "voices": [{"events": [
    {"offset": 0, "type": "half", "pitches": [{"step": "C", "octave": 4}]},
    {"offset": 2, "type": "half", "pitches": [{"step": "C", "octave": 4}]}
  ]}]}]}]}
}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(comparing.Config{}).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postDiff(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/diffs", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateAndFetchDiff(t *testing.T) {
	srv := newServer(t)

	resp := postDiff(t, srv, diffBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.DiffSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Record.NumSymbolErrors)
	assert.Equal(t, 2, created.Record.NumSymbolsInGroundTruth)
	assert.Equal(t, "omr.json", created.Record.Score1)
	require.Len(t, created.Ops, 1)
	assert.Equal(t, "Note:tie", created.Ops[0].Label)
	assert.Len(t, created.Marks, 2)

	get, err := http.Get(srv.URL + "/api/diffs/" + created.ID)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)

	list, err := http.Get(srv.URL + "/api/diffs")
	require.NoError(t, err)
	defer list.Body.Close()
	var sessions []models.DiffSession
	require.NoError(t, json.NewDecoder(list.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, created.ID, sessions[0].ID)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/diffs/"+created.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	missing, err := http.Get(srv.URL + "/api/diffs/" + created.ID)
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateDiffWithoutTies(t *testing.T) {
	srv := newServer(t)

	var req map[string]any
	require.NoError(t, json.Unmarshal([]byte(diffBody), &req))
	req["exclude"] = []string{"ties"}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp := postDiff(t, srv, string(body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.DiffSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Zero(t, created.Record.NumSymbolErrors)
	assert.Empty(t, created.Ops)
}

func TestCreateDiffRejects(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "not json", body: "{", code: http.StatusBadRequest},
		{name: "missing ground truth", body: `{"predicted": {}}`, code: http.StatusBadRequest},
		{name: "unknown field", body: `{"predicted": {}, "ground_truth": {}, "colour": 1}`, code: http.StatusBadRequest},
		{name: "unknown category", body: `{"predicted": {}, "ground_truth": {}, "detail": ["harmony"]}`, code: http.StatusBadRequest},
		{
			name: "malformed score",
			body: `{"predicted": {"staves": [{"measures": [{"voices": [{"events": [{"offset": -2, "type": "quarter", "rest": true}]}]}]}]}, "ground_truth": {}}`,
			code: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postDiff(t, srv, tt.body)
			assert.Equal(t, tt.code, resp.StatusCode)

			var e errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestHealthcheckAndMetrics(t *testing.T) {
	srv := newServer(t)
	postDiff(t, srv, diffBody)

	resp, err := http.Get(srv.URL + "/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	body, err = io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scorediff_api_diffs_total{status="ok"}`)
	assert.Contains(t, string(body), "scorediff_api_symbol_error_rate_bucket")
}
