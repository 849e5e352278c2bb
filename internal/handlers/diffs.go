package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/lehigh-university-libraries/scorediff/internal/models"
	"github.com/lehigh-university-libraries/scorediff/internal/report"
)

// maxBodyBytes bounds a request carrying two score documents.
const maxBodyBytes = 32 << 20

func (h *Handler) HandleCreateDiff(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DiffRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		diffsTotal.WithLabelValues("invalid").Inc()
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Predicted == nil || req.GroundTruth == nil {
		diffsTotal.WithLabelValues("invalid").Inc()
		h.writeError(w, "Both predicted and ground_truth are required", http.StatusBadRequest)
		return
	}

	svc, err := comparing.NewService(h.config(req), slog.Default())
	if err != nil {
		diffsTotal.WithLabelValues("invalid").Inc()
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmp, err := svc.Compare(req.Predicted, req.GroundTruth)
	switch {
	case errors.Is(err, annotation.ErrMalformedInput):
		diffsTotal.WithLabelValues("malformed").Inc()
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		diffsTotal.WithLabelValues("error").Inc()
		h.writeError(w, "Diff failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	cmp.Record.Score1 = req.PredictedName
	cmp.Record.Score2 = req.GroundTruthName

	session := &models.DiffSession{
		ID:        uuid.NewString(),
		Record:    cmp.Record,
		Ops:       report.OpRecords(cmp.Result.Ops),
		Marks:     report.Marks(cmp.Result.Ops),
		Notices:   cmp.Notices,
		CreatedAt: time.Now(),
	}
	h.sessionStore.Set(session.ID, session)

	diffsTotal.WithLabelValues("ok").Inc()
	diffDuration.Observe(time.Since(start).Seconds())
	diffSER.Observe(cmp.Record.SER)
	unsupportedEntities.Add(float64(len(cmp.Notices)))

	slog.Info("Diff created",
		"session_id", session.ID,
		"errors", cmp.Record.NumSymbolErrors,
		"symbols", cmp.Record.NumSymbolsInGroundTruth)

	h.writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) config(req models.DiffRequest) comparing.Config {
	cfg := h.defaults
	if len(req.Detail) > 0 {
		cfg.Include = req.Detail
	}
	if len(req.Exclude) > 0 {
		cfg.Exclude = req.Exclude
	}
	if req.MeasureAlignment != "" {
		cfg.MeasureAlignment = req.MeasureAlignment
	}
	return cfg
}
