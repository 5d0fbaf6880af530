package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/cache"
	"github.com/nyashahama/ai-readiness-assessments/internal/schema"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
)

// maxSubmissionBytes bounds a submission body. The largest form is a few
// hundred bytes of identifiers.
const maxSubmissionBytes = 64 << 10

// ─── GET /api/assessments ─────────────────────────────────────────────────────

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]any{"assessments": s.assessments.Catalog()})
}

// ─── POST /api/assessments/{kind} ─────────────────────────────────────────────
//
// Validates the body against the kind's schema, scores it, stores the result
// as pending delivery and hands it to the worker. An identical resubmission
// within the dedupe window returns the original result with 200.

type submitResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Duplicate    bool      `json:"duplicate,omitempty"`
	Report       any       `json:"report"`
}

type validationResponse struct {
	Error  string              `json:"error"`
	Fields []schema.FieldError `json:"fields,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	kind, err := assessment.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondErr(w, http.StatusNotFound, "unknown assessment")
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErr(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	// 1. Structural validation.
	if err := s.validator.Validate(kind, raw); err != nil {
		var verr *schema.Error
		if errors.As(err, &verr) {
			respond(w, http.StatusBadRequest, validationResponse{Error: "invalid submission", Fields: verr.Fields})
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	// 2. Typed decode (contact checks included).
	sub, err := assessment.Decode(kind, raw)
	if err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	// 3. Duplicate guard.
	fingerprint := assessment.Fingerprint(sub)
	if existing, ok := s.findDuplicate(r, fingerprint); ok {
		s.logger.Info("submit: duplicate submission", "kind", kind, "submission_id", existing.ID, logField(r))
		respond(w, http.StatusOK, submitResponse{
			SubmissionID: existing.ID,
			Duplicate:    true,
			Report:       json.RawMessage(existing.Result),
		})
		return
	}

	// 4. Score.
	res, err := s.assessments.Process(sub)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	if flags := res.Metadata.Flags; len(flags) > 0 {
		s.logger.Warn("submit: scored with flags",
			"kind", kind,
			"flags", flags,
			"escalated", res.Metadata.Escalated,
			logField(r),
		)
	}

	// 5. Persist.
	encoded, err := json.Marshal(res)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	contact := sub.Respondent()
	stored, err := s.store.Create(r.Context(), store.CreateParams{
		Kind:           string(kind),
		Email:          contact.Email,
		ContactName:    contact.Name,
		CompanyName:    contact.Company,
		MarketingOptIn: contact.MarketingOptIn,
		Fingerprint:    fingerprint,
		Answers:        raw,
		Result:         encoded,
		FinalScore:     res.Metadata.FinalScore,
		Band:           res.Metadata.Band,
		FlagCount:      len(res.Metadata.Flags),
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	if winner, ok := s.rememberFingerprint(r, fingerprint, stored.ID); !ok {
		// A concurrent identical request got there first; it owns delivery.
		s.logger.Info("submit: duplicate submission", "kind", kind, "submission_id", winner.ID, logField(r))
		if err := s.store.Delete(r.Context(), stored.ID); err != nil {
			s.logger.Warn("submit: could not drop duplicate row", "submission_id", stored.ID, "error", err, logField(r))
		}
		respond(w, http.StatusOK, submitResponse{
			SubmissionID: winner.ID,
			Duplicate:    true,
			Report:       json.RawMessage(winner.Result),
		})
		return
	}

	// 6. Hand off delivery. A full queue is not an error: the poller will
	// find the pending row.
	if err := s.worker.Enqueue(r.Context(), stored.ID); err != nil {
		s.logger.Warn("submit: enqueue failed, leaving for poller", "submission_id", stored.ID, "error", err, logField(r))
	}

	s.logger.Info("submit: scored",
		"kind", kind,
		"submission_id", stored.ID,
		"score", res.Metadata.FinalScore,
		"band", res.Metadata.Band,
		logField(r),
	)
	respond(w, http.StatusCreated, submitResponse{SubmissionID: stored.ID, Report: res})
}

// findDuplicate checks the guard first and the store second. Lookup errors
// are logged and treated as "no duplicate" so a cache outage never blocks
// intake.
func (s *Server) findDuplicate(r *http.Request, fingerprint string) (store.Submission, bool) {
	ctx := r.Context()

	id, err := s.guard.Lookup(ctx, fingerprint)
	switch {
	case err == nil:
		if parsed, perr := uuid.Parse(id); perr == nil {
			if sub, gerr := s.store.Get(ctx, parsed); gerr == nil {
				return sub, true
			}
		}
	case !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("submit: dedupe lookup failed", "error", err, logField(r))
	}

	sub, err := s.store.FindRecent(ctx, fingerprint, time.Now().Add(-s.cfg.DedupeTTL))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("submit: dedupe query failed", "error", err, logField(r))
		}
		return store.Submission{}, false
	}
	return sub, true
}

// rememberFingerprint records id under fingerprint. It returns the stored
// winner and false when another request recorded the fingerprint first. Guard
// errors, and a winner that cannot be loaded, leave id as the owner.
func (s *Server) rememberFingerprint(r *http.Request, fingerprint string, id uuid.UUID) (store.Submission, bool) {
	ctx := r.Context()

	got, err := s.guard.Remember(ctx, fingerprint, id.String())
	if err != nil {
		s.logger.Warn("submit: could not record fingerprint", "error", err, logField(r))
		return store.Submission{}, true
	}
	if got == id.String() {
		return store.Submission{}, true
	}
	winnerID, err := uuid.Parse(got)
	if err != nil {
		s.logger.Warn("submit: guard returned a bad id", "id", got, logField(r))
		return store.Submission{}, true
	}
	winner, err := s.store.Get(ctx, winnerID)
	if err != nil {
		s.logger.Warn("submit: guard winner not found", "submission_id", winnerID, "error", err, logField(r))
		return store.Submission{}, true
	}
	return winner, false
}
