package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/ai-readiness-assessments/internal/advisor"
	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/crm"
	"github.com/nyashahama/ai-readiness-assessments/internal/email"
	"github.com/nyashahama/ai-readiness-assessments/internal/report"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
	"github.com/nyashahama/ai-readiness-assessments/internal/worker"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubMailer struct {
	mu     sync.Mutex
	id     string
	err    error
	sent   []email.ReportParams
	onSend func() // runs after the send is recorded
}

func (s *stubMailer) SendReport(_ context.Context, p email.ReportParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, p)
	if s.onSend != nil {
		s.onSend()
	}
	return s.id, s.err
}

func (s *stubMailer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type stubSyncer struct {
	mu       sync.Mutex
	id       string
	err      error
	contacts []crm.Contact
}

func (s *stubSyncer) UpsertContact(_ context.Context, c crm.Contact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
	return s.id, s.err
}

type stubWriter struct {
	note string
	err  error
}

func (s stubWriter) CoverNote(context.Context, advisor.Brief) (string, error) {
	return s.note, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ─── FIXTURES ─────────────────────────────────────────────────────────────────

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func renderer(t *testing.T) *report.Renderer {
	t.Helper()
	r, err := report.New()
	if err != nil {
		t.Fatalf("report.New: %v", err)
	}
	return r
}

// seed scores a business readiness submission and stores it as pending.
func seed(t *testing.T, st *store.Store) store.Submission {
	t.Helper()
	svc, err := assessment.NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	sub := assessment.BusinessReadinessSubmission{
		Contact:     assessment.Contact{Email: "lerato@example.com", Name: "Lerato Dlamini", Company: "Dlamini Foods", MarketingOptIn: true},
		Strategy:    "exploring",
		Leadership:  "sponsor",
		DataQuality: "some_clean",
		Skills:      "enthusiasts",
		UseCases:    "piloting",
		Tooling:     "individual_tools",
		Governance:  "informal",
		Budget:      "ad_hoc",
	}
	res, err := svc.Process(sub)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	stored, err := st.Create(context.Background(), store.CreateParams{
		Kind:           string(res.Kind),
		Email:          sub.Contact.Email,
		ContactName:    sub.Contact.Name,
		CompanyName:    sub.Contact.Company,
		MarketingOptIn: true,
		Fingerprint:    assessment.Fingerprint(sub),
		Answers:        json.RawMessage(`{}`),
		Result:         raw,
		FinalScore:     res.Metadata.FinalScore,
		Band:           res.Metadata.Band,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return stored
}

func mustGet(t *testing.T, st *store.Store, id uuid.UUID) store.Submission {
	t.Helper()
	sub, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return sub
}

// ─── Job ──────────────────────────────────────────────────────────────────────

func TestJob_DeliversWithNote(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)
	mailer := &stubMailer{id: "msg_1"}
	syncer := &stubSyncer{id: "hs_1"}

	job := worker.NewJob(st, stubWriter{note: "A personal note for Lerato."}, renderer(t), mailer, syncer, discardLogger())
	if err := job.Run(context.Background(), sub.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := mustGet(t, st, sub.ID)
	if got.Status != store.StatusDelivered {
		t.Fatalf("status = %q, want delivered", got.Status)
	}
	want := store.Delivery{EmailID: "msg_1", ContactID: "hs_1", NoteIncluded: true}
	if got.Delivery == nil || *got.Delivery != want {
		t.Errorf("delivery = %+v, want %+v", got.Delivery, want)
	}

	if mailer.count() != 1 {
		t.Fatalf("expected one email, got %d", mailer.count())
	}
	sent := mailer.sent[0]
	if sent.To != "lerato@example.com" || sent.Name != "Lerato Dlamini" {
		t.Errorf("recipient = %q <%s>", sent.Name, sent.To)
	}
	if !strings.Contains(sent.Subject, got.Band) {
		t.Errorf("subject %q should name the band %q", sent.Subject, got.Band)
	}
	if !strings.Contains(sent.HTML, "A personal note for Lerato.") {
		t.Error("rendered email should include the cover note")
	}

	if len(syncer.contacts) != 1 {
		t.Fatalf("expected one CRM upsert, got %d", len(syncer.contacts))
	}
	props := syncer.contacts[0].Properties
	if props["ai_assessment"] != "business-readiness" || props["ai_assessment_band"] != got.Band {
		t.Errorf("crm properties = %v", props)
	}
}

func TestJob_AdvisorFailureIsNotFatal(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)
	mailer := &stubMailer{id: "msg_1"}

	job := worker.NewJob(st, stubWriter{err: errors.New("rate limited")}, renderer(t), mailer, crm.Nop{}, discardLogger())
	if err := job.Run(context.Background(), sub.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := mustGet(t, st, sub.ID)
	if got.Status != store.StatusDelivered {
		t.Errorf("status = %q, want delivered", got.Status)
	}
	if got.Delivery.NoteIncluded || got.Delivery.AdvisorError != "rate limited" {
		t.Errorf("delivery = %+v", got.Delivery)
	}
}

func TestJob_NilWriterSkipsNote(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)

	job := worker.NewJob(st, nil, renderer(t), &stubMailer{id: "msg_1"}, crm.Nop{}, discardLogger())
	if err := job.Run(context.Background(), sub.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := mustGet(t, st, sub.ID); got.Delivery.NoteIncluded || got.Delivery.AdvisorError != "" {
		t.Errorf("delivery = %+v", got.Delivery)
	}
}

func TestJob_EmailFailureStillSyncsCRM(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)
	syncer := &stubSyncer{id: "hs_1"}

	job := worker.NewJob(st, nil, renderer(t), &stubMailer{err: errors.New("resend: 422")}, syncer, discardLogger())
	err := job.Run(context.Background(), sub.ID)
	if err == nil {
		t.Fatal("expected an error when the email fails")
	}

	got := mustGet(t, st, sub.ID)
	if got.Status != store.StatusFailed {
		t.Errorf("status = %q, want failed", got.Status)
	}
	if got.Delivery.EmailError != "resend: 422" || got.Delivery.ContactID != "hs_1" {
		t.Errorf("delivery = %+v", got.Delivery)
	}
	if len(syncer.contacts) != 1 {
		t.Errorf("CRM should be synced even when the email fails")
	}
}

func TestJob_CRMFailureDoesNotFailDelivery(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)

	job := worker.NewJob(st, nil, renderer(t), &stubMailer{id: "msg_1"}, &stubSyncer{err: errors.New("hubspot 500")}, discardLogger())
	if err := job.Run(context.Background(), sub.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := mustGet(t, st, sub.ID)
	if got.Status != store.StatusDelivered || got.Delivery.CRMError != "hubspot 500" {
		t.Errorf("status %q delivery %+v", got.Status, got.Delivery)
	}
}

func TestJob_SkipsAlreadyClaimed(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)
	if _, err := st.ClaimDelivery(context.Background(), sub.ID); err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}
	mailer := &stubMailer{id: "msg_1"}

	job := worker.NewJob(st, nil, renderer(t), mailer, crm.Nop{}, discardLogger())
	if err := job.Run(context.Background(), sub.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mailer.count() != 0 {
		t.Error("a claimed submission must not be emailed twice")
	}
}

func TestJob_UnknownSubmission(t *testing.T) {
	st := openStore(t)
	job := worker.NewJob(st, nil, renderer(t), &stubMailer{}, crm.Nop{}, discardLogger())
	if err := job.Run(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestJob_CorruptResultIsRecordedAsFailed(t *testing.T) {
	st := openStore(t)
	stored, err := st.Create(context.Background(), store.CreateParams{
		Kind: "shadow-ai", Email: "x@example.com", ContactName: "X", Fingerprint: "fp",
		Answers: json.RawMessage(`{}`), Result: json.RawMessage(`{"kind":"nope"}`), Band: "?",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mailer := &stubMailer{}

	job := worker.NewJob(st, nil, renderer(t), mailer, crm.Nop{}, discardLogger())
	if err := job.Run(context.Background(), stored.ID); err == nil {
		t.Fatal("expected a decode error")
	}
	if got := mustGet(t, st, stored.ID); got.Status != store.StatusFailed {
		t.Errorf("status = %q, want failed", got.Status)
	}
	if mailer.count() != 0 {
		t.Error("nothing should be sent for an undecodable result")
	}
}

func TestJob_RecordsOutcomeAfterContextCancelled(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)

	// Shutdown lands while the email is in flight.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mailer := &stubMailer{id: "msg_1", onSend: cancel}

	job := worker.NewJob(st, nil, renderer(t), mailer, crm.Nop{}, discardLogger())
	if err := job.Run(ctx, sub.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := mustGet(t, st, sub.ID)
	if got.Status != store.StatusDelivered {
		t.Errorf("status = %q, want delivered", got.Status)
	}
	if got.Delivery == nil || got.Delivery.EmailID != "msg_1" {
		t.Errorf("delivery = %+v", got.Delivery)
	}
}

// ─── Runner ───────────────────────────────────────────────────────────────────

func waitForStatus(t *testing.T, st *store.Store, id uuid.UUID, want store.Status) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if sub, err := st.Get(context.Background(), id); err == nil && sub.Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("submission %s never reached status %q", id, want)
}

func TestRunner_DeliversEnqueuedAndPendingSubmissions(t *testing.T) {
	st := openStore(t)
	leftover := seed(t, st) // pending before the runner starts: poller path
	mailer := &stubMailer{id: "msg_1"}

	job := worker.NewJob(st, nil, renderer(t), mailer, crm.Nop{}, discardLogger())
	r := worker.NewRunner(job, st, worker.RunnerConfig{Workers: 2, PollInterval: time.Hour}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	fresh := seed(t, st)
	if err := r.Enqueue(ctx, fresh.ID); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	waitForStatus(t, st, leftover.ID, store.StatusDelivered)
	waitForStatus(t, st, fresh.ID, store.StatusDelivered)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
	if n := mailer.count(); n != 2 {
		t.Errorf("expected exactly 2 emails, got %d", n)
	}
}

func TestRunner_EnqueueFullQueue(t *testing.T) {
	st := openStore(t)
	job := worker.NewJob(st, nil, renderer(t), &stubMailer{}, crm.Nop{}, discardLogger())
	r := worker.NewRunner(job, st, worker.RunnerConfig{Workers: 1}, discardLogger())

	// Not started: the buffer fills and Enqueue must not block.
	var err error
	for range 100 {
		if err = r.Enqueue(context.Background(), uuid.New()); err != nil {
			break
		}
	}
	if !errors.Is(err, worker.ErrQueueFull) {
		t.Errorf("want ErrQueueFull, got %v", err)
	}
}

func TestRunner_ReclaimsStaleProcessingRow(t *testing.T) {
	st := openStore(t)
	sub := seed(t, st)

	// A previous process claimed the row and died before recording anything.
	claimed, err := st.ClaimDelivery(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}
	// Timestamps are whole seconds; step past the claim's second.
	for time.Now().Unix() <= claimed.UpdatedAt.Unix() {
		time.Sleep(20 * time.Millisecond)
	}

	mailer := &stubMailer{id: "msg_1"}
	job := worker.NewJob(st, nil, renderer(t), mailer, crm.Nop{}, discardLogger())
	r := worker.NewRunner(job, st, worker.RunnerConfig{
		Workers:      1,
		PollInterval: time.Hour,
		StaleAfter:   time.Millisecond,
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	waitForStatus(t, st, sub.ID, store.StatusDelivered)
	cancel()
	<-done

	if n := mailer.count(); n != 1 {
		t.Errorf("expected one email, got %d", n)
	}
	if got := mustGet(t, st, sub.ID); got.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", got.Attempts)
	}
}
