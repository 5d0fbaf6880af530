package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/ai-readiness-assessments/internal/advisor"
	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/crm"
	"github.com/nyashahama/ai-readiness-assessments/internal/email"
	"github.com/nyashahama/ai-readiness-assessments/internal/report"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
)

// Job delivers one scored submission. Each downstream call is independent:
// a failed cover note or CRM sync never blocks the email, and a failed email
// never skips the CRM sync.
type Job struct {
	store    *store.Store
	writer   advisor.Writer // may be nil
	renderer *report.Renderer
	mailer   email.Sender
	crm      crm.Syncer
	logger   *slog.Logger
}

// NewJob constructs a Job with all required dependencies. writer may be nil
// to disable cover notes; syncer may be crm.Nop{}.
func NewJob(
	st *store.Store,
	writer advisor.Writer,
	renderer *report.Renderer,
	mailer email.Sender,
	syncer crm.Syncer,
	logger *slog.Logger,
) *Job {
	return &Job{
		store:    st,
		writer:   writer,
		renderer: renderer,
		mailer:   mailer,
		crm:      syncer,
		logger:   logger,
	}
}

// Run executes the delivery pipeline for one submission:
//
//  1. Claim the row (pending -> processing).
//  2. Decode the stored result.
//  3. Ask the advisor for a cover note (optional).
//  4. Render and send the report email.
//  5. Upsert the CRM contact.
//  6. Record the outcome: delivered when the email went out, failed otherwise.
//
// A submission that is no longer pending is skipped without error.
func (j *Job) Run(ctx context.Context, id uuid.UUID) error {
	log := j.logger.With("submission_id", id)

	sub, err := j.store.ClaimDelivery(ctx, id)
	if errors.Is(err, store.ErrNotClaimable) {
		log.Debug("job: submission already claimed, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("job: claim: %w", err)
	}
	log = log.With("kind", sub.Kind, "attempt", sub.Attempts)

	var d store.Delivery

	res, err := assessment.UnmarshalResult(sub.Result)
	if err != nil {
		d.EmailError = "decode result: " + err.Error()
		return j.finish(ctx, log, sub.ID, store.StatusFailed, d, fmt.Errorf("job: decode result: %w", err))
	}

	// ── Cover note ────────────────────────────────────────────────────────────
	note := ""
	if j.writer != nil {
		note, err = j.writer.CoverNote(ctx, advisor.BriefFrom(res))
		if err != nil {
			log.Warn("job: cover note failed, sending without it", "error", err)
			d.AdvisorError = err.Error()
			note = ""
		}
	}
	d.NoteIncluded = note != ""

	// ── Email ─────────────────────────────────────────────────────────────────
	var emailErr error
	html, err := j.renderer.Render(res, note)
	if err != nil {
		emailErr = fmt.Errorf("render: %w", err)
	} else {
		d.EmailID, emailErr = j.mailer.SendReport(ctx, email.ReportParams{
			To:      sub.Email,
			Name:    sub.ContactName,
			Subject: report.Subject(res),
			HTML:    html,
		})
	}
	if emailErr != nil {
		log.Error("job: report email failed", "error", emailErr)
		d.EmailError = emailErr.Error()
	} else {
		log.Info("job: report email sent", "email_id", d.EmailID)
	}

	// ── CRM ───────────────────────────────────────────────────────────────────
	d.ContactID, err = j.crm.UpsertContact(ctx, contactFor(sub, res))
	if err != nil {
		log.Warn("job: crm upsert failed", "error", err)
		d.CRMError = err.Error()
	}

	if emailErr != nil {
		return j.finish(ctx, log, sub.ID, store.StatusFailed, d, fmt.Errorf("job: send email: %w", emailErr))
	}
	return j.finish(ctx, log, sub.ID, store.StatusDelivered, d, nil)
}

// finishTimeout bounds the outcome write, which outlives the job context.
const finishTimeout = 10 * time.Second

// finish records the outcome and returns cause, or the store error if the
// outcome could not be written. The write runs even when ctx is already
// cancelled by shutdown or the job timeout.
func (j *Job) finish(ctx context.Context, log *slog.Logger, id uuid.UUID, status store.Status, d store.Delivery, cause error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()

	if err := j.store.FinishDelivery(ctx, id, status, d); err != nil {
		log.Error("job: could not record delivery outcome", "status", status, "error", err)
		return errors.Join(cause, fmt.Errorf("job: record outcome: %w", err))
	}
	log.Info("job: delivery recorded", "status", status)
	return cause
}

func contactFor(sub store.Submission, res assessment.Result) crm.Contact {
	return crm.Contact{
		Email:   sub.Email,
		Name:    sub.ContactName,
		Company: sub.CompanyName,
		Properties: map[string]string{
			"ai_assessment":       string(res.Kind),
			"ai_assessment_score": strconv.Itoa(res.Metadata.FinalScore),
			"ai_assessment_band":  res.Metadata.Band,
			"ai_assessment_date":  res.Metadata.ProcessedAt.Format("2006-01-02"),
			"ai_assessment_id":    sub.ID.String(),
			"ai_marketing_opt_in": strconv.FormatBool(sub.MarketingOptIn),
		},
	}
}
