package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
)

// ─── RESPONSE TYPES ──────────────────────────────────────────────────────────

type submissionSummary struct {
	ID             uuid.UUID       `json:"id"`
	Kind           string          `json:"kind"`
	Email          string          `json:"email"`
	ContactName    string          `json:"contact_name"`
	CompanyName    string          `json:"company_name,omitempty"`
	MarketingOptIn bool            `json:"marketing_opt_in"`
	FinalScore     int             `json:"final_score"`
	Band           string          `json:"band"`
	FlagCount      int             `json:"flag_count"`
	Status         store.Status    `json:"delivery_status"`
	Delivery       *store.Delivery `json:"delivery,omitempty"`
	Attempts       int             `json:"attempts"`
	CreatedAt      time.Time       `json:"created_at"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
}

type submissionDetail struct {
	submissionSummary
	Answers json.RawMessage `json:"answers"`
	Report  json.RawMessage `json:"report"`
}

func summarise(sub store.Submission) submissionSummary {
	return submissionSummary{
		ID:             sub.ID,
		Kind:           sub.Kind,
		Email:          sub.Email,
		ContactName:    sub.ContactName,
		CompanyName:    sub.CompanyName,
		MarketingOptIn: sub.MarketingOptIn,
		FinalScore:     sub.FinalScore,
		Band:           sub.Band,
		FlagCount:      sub.FlagCount,
		Status:         sub.Status,
		Delivery:       sub.Delivery,
		Attempts:       sub.Attempts,
		CreatedAt:      sub.CreatedAt,
		DeliveredAt:    sub.DeliveredAt,
	}
}

// ─── GET /api/admin/submissions ──────────────────────────────────────────────

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r)
	if !ok {
		return
	}
	if p.Limit == 0 {
		p.Limit = defaultPageSize
	}

	subs, err := s.store.List(r.Context(), p)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	out := make([]submissionSummary, 0, len(subs))
	for _, sub := range subs {
		out = append(out, summarise(sub))
	}
	respond(w, http.StatusOK, map[string]any{"submissions": out, "limit": p.Limit, "offset": p.Offset})
}

// ─── GET /api/admin/submissions/export ───────────────────────────────────────

// handleExportSubmissions streams the lead log as CSV. Filters match the list
// endpoint; there is no page limit.
func (s *Server) handleExportSubmissions(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r)
	if !ok {
		return
	}
	subs, err := s.store.List(r.Context(), p)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="lead-log-`+time.Now().UTC().Format("20060102")+`.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := store.WriteCSV(w, subs); err != nil {
		s.logger.Error("admin: csv export interrupted", "error", err, logField(r))
	}
}

// ─── GET /api/admin/submissions/{id} ─────────────────────────────────────────

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	sub, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "submission not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, submissionDetail{
		submissionSummary: summarise(sub),
		Answers:           sub.Answers,
		Report:            sub.Result,
	})
}

// ─── POST /api/admin/submissions/{id}/requeue ────────────────────────────────

func (s *Server) handleRequeueSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	switch err := s.store.Requeue(r.Context(), id); {
	case errors.Is(err, store.ErrNotFound):
		respondErr(w, http.StatusNotFound, "submission not found")
		return
	case errors.Is(err, store.ErrDeliveryInFlight):
		respondErr(w, http.StatusConflict, "delivery already in progress")
		return
	case err != nil:
		s.respondInternalErr(w, r, err)
		return
	}

	if err := s.worker.Enqueue(r.Context(), id); err != nil {
		s.logger.Warn("admin: enqueue failed, leaving for poller", "submission_id", id, "error", err, logField(r))
	}
	respond(w, http.StatusAccepted, map[string]any{"submission_id": id, "delivery_status": store.StatusPending})
}

// listParams parses ?kind=&status=&limit=&offset=. It writes a 400 and
// returns false on bad input.
func listParams(w http.ResponseWriter, r *http.Request) (store.ListParams, bool) {
	q := r.URL.Query()
	var p store.ListParams

	if k := q.Get("kind"); k != "" {
		kind, err := assessment.ParseKind(k)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "unknown assessment kind")
			return p, false
		}
		p.Kind = string(kind)
	}
	if st := q.Get("status"); st != "" {
		switch status := store.Status(st); status {
		case store.StatusPending, store.StatusProcessing, store.StatusDelivered, store.StatusFailed:
			p.Status = status
		default:
			respondErr(w, http.StatusBadRequest, "unknown delivery status")
			return p, false
		}
	}
	for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondErr(w, http.StatusBadRequest, name+" must be a non-negative integer")
			return p, false
		}
		*dst = n
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p, true
}
