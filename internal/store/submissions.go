package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// ─── TYPES ───────────────────────────────────────────────────────────────────

// Status is the delivery state of a submission.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusFailed     Status = "failed"
)

// Delivery records what happened when the worker delivered a report. Each
// downstream call is recorded independently; a CRM failure does not undo a
// sent email.
type Delivery struct {
	EmailID      string `json:"email_id,omitempty"`
	EmailError   string `json:"email_error,omitempty"`
	ContactID    string `json:"contact_id,omitempty"`
	CRMError     string `json:"crm_error,omitempty"`
	NoteIncluded bool   `json:"note_included"`
	AdvisorError string `json:"advisor_error,omitempty"`
}

// Submission is one stored row.
type Submission struct {
	ID             uuid.UUID
	Kind           string
	Email          string
	ContactName    string
	CompanyName    string
	MarketingOptIn bool
	Fingerprint    string
	Answers        json.RawMessage // the submission as received
	Result         json.RawMessage // encoded assessment result
	FinalScore     int
	Band           string
	FlagCount      int
	Status         Status
	Delivery       *Delivery
	Attempts       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeliveredAt    *time.Time
}

// CreateParams is everything the intake handler has once a submission has
// been scored.
type CreateParams struct {
	ID             uuid.UUID // generated when zero
	Kind           string
	Email          string
	ContactName    string
	CompanyName    string
	MarketingOptIn bool
	Fingerprint    string
	Answers        json.RawMessage
	Result         json.RawMessage
	FinalScore     int
	Band           string
	FlagCount      int
}

// ListParams filters List. Zero values mean "no filter"; Limit 0 means all.
type ListParams struct {
	Kind   string
	Status Status
	Limit  int
	Offset int
}

const columns = `id, kind, email, contact_name, company_name, marketing_opt_in,
	fingerprint, answers_json, result_json, final_score, band, flag_count,
	delivery_status, delivery_json, attempts, created_at, updated_at, delivered_at`

// ─── WRITES ──────────────────────────────────────────────────────────────────

// Create inserts a submission in pending delivery state.
func (s *Store) Create(ctx context.Context, p CreateParams) (Submission, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().Unix()
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO submissions (id, kind, email, contact_name, company_name, marketing_opt_in,
			fingerprint, answers_json, result_json, final_score, band, flag_count,
			delivery_status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, $14, $14)`,
		p.ID.String(), p.Kind, strings.ToLower(strings.TrimSpace(p.Email)), p.ContactName, p.CompanyName, p.MarketingOptIn,
		p.Fingerprint, string(p.Answers), string(p.Result), p.FinalScore, p.Band, p.FlagCount,
		string(StatusPending), now,
	)
	if err != nil {
		return Submission{}, fmt.Errorf("store: create submission: %w", err)
	}
	return s.Get(ctx, p.ID)
}

// ClaimDelivery moves a pending submission to processing and returns it.
// The conditional update is the guard against two workers delivering the
// same report.
func (s *Store) ClaimDelivery(ctx context.Context, id uuid.UUID) (Submission, error) {
	var sub Submission
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE submissions
			SET delivery_status = $1, attempts = attempts + 1, updated_at = $2
			WHERE id = $3 AND delivery_status = $4`,
			string(StatusProcessing), time.Now().Unix(), id.String(), string(StatusPending),
		)
		if err != nil {
			return fmt.Errorf("store: claim delivery: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: claim delivery: %w", err)
		}
		if n == 0 {
			if _, err := getTx(ctx, tx, id); err != nil {
				return err
			}
			return ErrNotClaimable
		}
		sub, err = getTx(ctx, tx, id)
		return err
	})
	return sub, err
}

// FinishDelivery records the outcome of a delivery attempt. status must be
// StatusDelivered or StatusFailed.
func (s *Store) FinishDelivery(ctx context.Context, id uuid.UUID, status Status, d Delivery) error {
	if status != StatusDelivered && status != StatusFailed {
		return fmt.Errorf("store: finish delivery: invalid final status %q", status)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("store: encode delivery: %w", err)
	}
	now := time.Now().Unix()
	var deliveredAt sql.NullInt64
	if status == StatusDelivered {
		deliveredAt = sql.NullInt64{Int64: now, Valid: true}
	}
	res, err := s.pool.ExecContext(ctx, `
		UPDATE submissions
		SET delivery_status = $1, delivery_json = $2, updated_at = $3, delivered_at = $4
		WHERE id = $5`,
		string(status), pqtype.NullRawMessage{RawMessage: raw, Valid: true}, now, deliveredAt, id.String(),
	)
	if err != nil {
		return fmt.Errorf("store: finish delivery: %w", err)
	}
	return requireRow(res)
}

// Requeue puts a delivered or failed submission back to pending so the
// worker sends it again.
func (s *Store) Requeue(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sub, err := getTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if sub.Status == StatusProcessing {
			return ErrDeliveryInFlight
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE submissions SET delivery_status = $1, updated_at = $2 WHERE id = $3`,
			string(StatusPending), time.Now().Unix(), id.String(),
		)
		if err != nil {
			return fmt.Errorf("store: requeue: %w", err)
		}
		return nil
	})
}

// ReclaimStale puts processing rows last touched before cutoff back to
// pending. A row stays in processing when its worker died or its outcome
// could not be written.
func (s *Store) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE submissions SET delivery_status = $1, updated_at = $2
		WHERE delivery_status = $3 AND updated_at < $4`,
		string(StatusPending), time.Now().Unix(), string(StatusProcessing), cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: reclaim stale: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: reclaim stale: %w", err)
	}
	return n, nil
}

// Delete removes a submission that is still pending delivery. Any other row
// reports ErrNotFound.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.pool.ExecContext(ctx, `
		DELETE FROM submissions WHERE id = $1 AND delivery_status = $2`,
		id.String(), string(StatusPending),
	)
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	return requireRow(res)
}

// ─── READS ───────────────────────────────────────────────────────────────────

// Get returns one submission or ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Submission, error) {
	row := s.pool.QueryRowContext(ctx, `SELECT `+columns+` FROM submissions WHERE id = $1`, id.String())
	return scanSubmission(row)
}

func getTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Submission, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+columns+` FROM submissions WHERE id = $1`, id.String())
	return scanSubmission(row)
}

// FindRecent returns the newest submission with fingerprint created at or
// after since, or ErrNotFound.
func (s *Store) FindRecent(ctx context.Context, fingerprint string, since time.Time) (Submission, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+columns+` FROM submissions
		WHERE fingerprint = $1 AND created_at >= $2
		ORDER BY created_at DESC LIMIT 1`,
		fingerprint, since.Unix(),
	)
	return scanSubmission(row)
}

// List returns submissions newest first.
func (s *Store) List(ctx context.Context, p ListParams) ([]Submission, error) {
	var (
		where []string
		args  []any
	)
	if p.Kind != "" {
		args = append(args, p.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		where = append(where, fmt.Sprintf("delivery_status = $%d", len(args)))
	}

	q := `SELECT ` + columns + ` FROM submissions`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id`
	if p.Limit > 0 {
		args = append(args, p.Limit, p.Offset)
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	return s.query(ctx, q, args...)
}

// ListPending returns up to limit ids awaiting delivery, oldest first. The
// recovery poller uses it after a restart.
func (s *Store) ListPending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT id FROM submissions WHERE delivery_status = $1
		ORDER BY created_at, id LIMIT $2`,
		string(StatusPending), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list pending: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("store: list pending: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("store: list pending: bad id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Submission, error) {
	rows, err := s.pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list submissions: %w", err)
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// ─── SCANNING ────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (Submission, error) {
	var (
		sub         Submission
		id          string
		answers     []byte
		result      []byte
		status      string
		delivery    pqtype.NullRawMessage
		createdAt   int64
		updatedAt   int64
		deliveredAt sql.NullInt64
	)
	err := row.Scan(&id, &sub.Kind, &sub.Email, &sub.ContactName, &sub.CompanyName, &sub.MarketingOptIn,
		&sub.Fingerprint, &answers, &result, &sub.FinalScore, &sub.Band, &sub.FlagCount,
		&status, &delivery, &sub.Attempts, &createdAt, &updatedAt, &deliveredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, fmt.Errorf("store: scan submission: %w", err)
	}

	if sub.ID, err = uuid.Parse(id); err != nil {
		return Submission{}, fmt.Errorf("store: scan submission: bad id %q: %w", id, err)
	}
	sub.Answers = json.RawMessage(answers)
	sub.Result = json.RawMessage(result)
	sub.Status = Status(status)
	sub.CreatedAt = time.Unix(createdAt, 0).UTC()
	sub.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if deliveredAt.Valid {
		t := time.Unix(deliveredAt.Int64, 0).UTC()
		sub.DeliveredAt = &t
	}
	if delivery.Valid && len(delivery.RawMessage) > 0 {
		var d Delivery
		if err := json.Unmarshal(delivery.RawMessage, &d); err != nil {
			return Submission{}, fmt.Errorf("store: decode delivery for %s: %w", id, err)
		}
		sub.Delivery = &d
	}
	return sub, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
