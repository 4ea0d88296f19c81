package pipeline_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
	"github.com/opengovlk/docintel-worker/internal/pipeline"
	"github.com/opengovlk/docintel-worker/internal/queue"
	"github.com/opengovlk/docintel-worker/internal/storage"
)

const nicText = "NATIONAL IDENTITY CARD Name: JOHN DOE Address: 12 Main St Date of Birth: 1990-01-15 Male ID Number: 901234567V official seal watermark"

type fakeExtractor struct {
	result *job.ExtractionResult
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, fileRef, _ string) (*job.ExtractionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type failingSink struct {
	calls int
}

func (s *failingSink) Persist(context.Context, string, *job.PipelineOutcome) error {
	s.calls++
	return xerrors.NewPersistenceError("doc-1", fmt.Errorf("connection refused"))
}

func newHarness(t *testing.T, extractor *fakeExtractor, sink storage.ResultSink) (*pipeline.Orchestrator, *queue.MemoryQueue, *job.Store) {
	t.Helper()
	q := queue.NewMemoryQueue()
	store := job.NewStore()
	orch, err := pipeline.NewOrchestrator(pipeline.Config{
		Queue:     q,
		Store:     store,
		Extractor: extractor,
		Sink:      sink,
	})
	if err != nil {
		t.Fatalf("failed to build orchestrator: %v", err)
	}
	return orch, q, store
}

// drain runs the pipeline the way a worker would: dequeue and process
// until the queue is empty, so retries re-enter through the queue.
func drain(ctx context.Context, t *testing.T, orch *pipeline.Orchestrator, q *queue.MemoryQueue) {
	t.Helper()
	for {
		j, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue failed: %v", err)
		}
		if j == nil {
			return
		}
		orch.Process(ctx, j)
	}
}

func submit(ctx context.Context, t *testing.T, q *queue.MemoryQueue, store *job.Store, j *job.Job) {
	t.Helper()
	j.Status = job.StatusPending
	store.Set(j)
	if err := q.Enqueue(ctx, j); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
}

func TestProcess_CompletedJobCarriesResult(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{result: &job.ExtractionResult{Text: nicText, Confidence: 0.91}}
	sink := storage.NewMemorySink()
	orch, q, store := newHarness(t, extractor, sink)

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/nic.png"})
	drain(ctx, t, orch, q)

	stored, ok := store.Get("j1")
	if !ok {
		t.Fatal("job missing from store")
	}
	if stored.Status != job.StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", stored.Status, stored.FailureReason)
	}
	if stored.Result == nil {
		t.Fatal("completed job must carry a result")
	}
	if stored.FailureReason != "" {
		t.Fatalf("completed job must have no failure reason, got %q", stored.FailureReason)
	}
	if stored.Result.Classification.DetectedType != "NIC" {
		t.Fatalf("expected NIC detection, got %q", stored.Result.Classification.DetectedType)
	}
	if stored.Result.Fields["nic_number"] != "901234567V" {
		t.Fatalf("unexpected fields: %v", stored.Result.Fields)
	}

	outcome, ok := sink.Get("j1")
	if !ok || outcome != stored.Result {
		t.Fatal("outcome not persisted under the document id")
	}
}

func TestProcess_DeclaredTypeOverridesDetected(t *testing.T) {
	ctx := context.Background()
	// text that classifies as a birth certificate
	text := `BIRTH CERTIFICATE
Registration of Births
Name of Child: BABY JANE
Place of Birth: Colombo
Father: JOHN DOE
Mother: JANE DOE`
	extractor := &fakeExtractor{result: &job.ExtractionResult{Text: text, Confidence: 0.9}}
	sink := storage.NewMemorySink()
	orch, q, store := newHarness(t, extractor, sink)

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/doc.png", DeclaredType: "NIC"})
	drain(ctx, t, orch, q)

	stored, _ := store.Get("j1")
	if stored.Result == nil {
		t.Fatalf("expected result, status=%s reason=%s", stored.Status, stored.FailureReason)
	}
	if stored.Result.DocumentType != "NIC" {
		t.Fatalf("declared type must drive extraction, got %q", stored.Result.DocumentType)
	}
	if stored.Result.Classification.DetectedType != "BirthCertificate" {
		t.Fatalf("detected type must stay recorded for audit, got %q",
			stored.Result.Classification.DetectedType)
	}
}

func TestProcess_ExtractionTimeoutExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{err: xerrors.NewTimeoutError("/uploads/nic.png", context.DeadlineExceeded)}
	orch, q, store := newHarness(t, extractor, storage.NewMemorySink())

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/nic.png"})
	drain(ctx, t, orch, q)

	stored, _ := store.Get("j1")
	if stored.Status != job.StatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if stored.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", stored.Attempts)
	}
	if !strings.Contains(stored.FailureReason, "extraction") {
		t.Fatalf("failure reason must mention extraction, got %q", stored.FailureReason)
	}
	if stored.Result != nil {
		t.Fatal("failed job must not carry a result")
	}
	if extractor.calls != 3 {
		t.Fatalf("expected 3 extraction calls, got %d", extractor.calls)
	}
}

func TestProcess_ExtractionFailureReasonCarriesKind(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{err: xerrors.NewNotFoundError("/uploads/gone.png", nil)}
	orch, q, store := newHarness(t, extractor, storage.NewMemorySink())

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/gone.png"})
	drain(ctx, t, orch, q)

	stored, _ := store.Get("j1")
	if stored.FailureReason != "extraction: NotFound" {
		t.Fatalf("unexpected failure reason: %q", stored.FailureReason)
	}
}

func TestProcess_PersistFailureRetriesThenFails(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{result: &job.ExtractionResult{Text: nicText, Confidence: 0.9}}
	sink := &failingSink{}
	orch, q, store := newHarness(t, extractor, sink)

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/nic.png"})
	drain(ctx, t, orch, q)

	stored, _ := store.Get("j1")
	if stored.Status != job.StatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if !strings.HasPrefix(stored.FailureReason, "persist: ") {
		t.Fatalf("failure reason must mention persistence, got %q", stored.FailureReason)
	}
	if sink.calls != 3 {
		t.Fatalf("expected a persist attempt per retry, got %d", sink.calls)
	}
}

func TestProcess_UnknownTypeDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{result: &job.ExtractionResult{Text: "unremarkable text with nothing to classify", Confidence: 0.9}}
	sink := storage.NewMemorySink()
	orch, q, store := newHarness(t, extractor, sink)

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/blob.png"})
	drain(ctx, t, orch, q)

	stored, _ := store.Get("j1")
	if stored.Status != job.StatusCompleted {
		t.Fatalf("unknown type must still complete, got %s (%s)", stored.Status, stored.FailureReason)
	}
	if stored.Result.DocumentType != "unknown" {
		t.Fatalf("expected unknown type, got %q", stored.Result.DocumentType)
	}
	if len(stored.Result.Fields) != 0 {
		t.Fatalf("expected empty fields for unknown type, got %v", stored.Result.Fields)
	}
	if !stored.Result.Suspicion.IsSuspicious {
		t.Fatal("unauthenticated document should be flagged")
	}
}

func TestProcess_ZeroConfidenceFloorDisablesRule(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{result: &job.ExtractionResult{Text: nicText, Confidence: 0.1}}
	sink := storage.NewMemorySink()
	q := queue.NewMemoryQueue()
	store := job.NewStore()

	floor := 0.0
	orch, err := pipeline.NewOrchestrator(pipeline.Config{
		Queue:         q,
		Store:         store,
		Extractor:     extractor,
		Sink:          sink,
		MinConfidence: &floor,
	})
	if err != nil {
		t.Fatalf("failed to build orchestrator: %v", err)
	}

	submit(ctx, t, q, store, &job.Job{ID: "j1", FileRef: "/uploads/nic.png"})
	drain(ctx, t, orch, q)

	stored, _ := store.Get("j1")
	if stored.Result == nil {
		t.Fatalf("expected result, status=%s reason=%s", stored.Status, stored.FailureReason)
	}
	for _, reason := range stored.Result.Suspicion.Reasons {
		if strings.HasPrefix(reason, "low OCR confidence") {
			t.Fatalf("a configured zero floor must disable the rule, got %v",
				stored.Result.Suspicion.Reasons)
		}
	}
}

func TestProcess_DocumentIDFromMetadata(t *testing.T) {
	ctx := context.Background()
	extractor := &fakeExtractor{result: &job.ExtractionResult{Text: nicText, Confidence: 0.9}}
	sink := storage.NewMemorySink()
	orch, q, store := newHarness(t, extractor, sink)

	submit(ctx, t, q, store, &job.Job{
		ID:       "j1",
		FileRef:  "/uploads/nic.png",
		Metadata: map[string]string{"document_id": "doc-42"},
	})
	drain(ctx, t, orch, q)

	if _, ok := sink.Get("doc-42"); !ok {
		t.Fatal("outcome must be keyed by the metadata document id")
	}
}
