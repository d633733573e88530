package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

func startWorker(t *testing.T) *EngineWorker {
	t.Helper()
	w := NewEngineWorker(logger.Nop(), testDispatcher(), nil, WorkerConfig{QueueSize: 64, ResultBuffer: 64})
	if err := w.Start(); err != nil {
		t.Fatalf("start worker: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = w.Stop(ctx)
	})
	return w
}

func awaitResult(t *testing.T, w *EngineWorker) models.Result {
	t.Helper()
	select {
	case res := <-w.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return models.Result{}
	}
}

func TestWorkerEndToEndIndicators(t *testing.T) {
	w := startWorker(t)

	task := models.Task{
		ID:      "t1",
		Payload: models.IndicatorsPayload{Points: pricePoints(30), Indicators: []string{"SMA_20"}},
	}
	if err := w.Submit(context.Background(), task); err != nil {
		t.Fatalf("submit: %v", err)
	}

	res := awaitResult(t, w)
	if res.ID != "t1" || !res.Success {
		t.Fatalf("unexpected result %+v", res)
	}
	out := res.Value.(models.IndicatorsResult)
	if len(out.TechnicalIndicators["sma20"]) != 11 {
		t.Errorf("expected 11 sma20 values, got %d", len(out.TechnicalIndicators["sma20"]))
	}
}

func TestWorkerFIFOOrdering(t *testing.T) {
	w := startWorker(t)

	const n = 20
	for i := 0; i < n; i++ {
		task := models.Task{
			ID:      fmt.Sprintf("task-%02d", i),
			Payload: models.BulkPayload{Records: nil, AsKind: models.KindFilterSort},
		}
		if err := w.Submit(context.Background(), task); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	for i := 0; i < n; i++ {
		res := awaitResult(t, w)
		want := fmt.Sprintf("task-%02d", i)
		if res.ID != want {
			t.Fatalf("result %d: expected %s, got %s", i, want, res.ID)
		}
	}
}

func TestWorkerFailureDoesNotKillWorker(t *testing.T) {
	w := startWorker(t)

	bad := DecodeTask(TaskEnvelope{ID: "bad", Kind: "Nonexistent"})
	if err := w.Submit(context.Background(), bad); err != nil {
		t.Fatalf("submit bad: %v", err)
	}
	good := models.Task{ID: "good", Payload: models.PortfolioPayload{Holdings: map[string]float64{}}}
	if err := w.Submit(context.Background(), good); err != nil {
		t.Fatalf("submit good: %v", err)
	}

	first := awaitResult(t, w)
	if first.ID != "bad" || first.Success || first.Error == "" {
		t.Fatalf("expected failed result first, got %+v", first)
	}
	second := awaitResult(t, w)
	if second.ID != "good" || !second.Success {
		t.Fatalf("expected worker to survive and process next task, got %+v", second)
	}
}

func TestSubmitDeepCopiesPayload(t *testing.T) {
	w := startWorker(t)

	records := []models.StockRecord{{Code: "AAPL", CurrentPrice: 100, PriceChange: 1}}
	task := models.Task{
		ID:      "copy",
		Payload: models.BulkPayload{Records: records, Options: models.FilterSortOptions{GainersOnly: true}, AsKind: models.KindFilterSort},
	}
	if err := w.Submit(context.Background(), task); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// Mutate the caller-owned slice immediately after submit; the engine must
	// have taken its own copy.
	records[0].PriceChange = -5

	res := awaitResult(t, w)
	got := res.Value.([]models.StockRecord)
	if len(got) != 1 {
		t.Fatalf("expected the record to pass the gainers filter, got %v", got)
	}
}

func TestStopDrainsSubmittedTasks(t *testing.T) {
	w := NewEngineWorker(logger.Nop(), testDispatcher(), nil, WorkerConfig{QueueSize: 16, ResultBuffer: 16})
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 5; i++ {
		task := models.Task{ID: fmt.Sprintf("d%d", i), Payload: models.PortfolioPayload{Holdings: map[string]float64{}}}
		if err := w.Submit(context.Background(), task); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	var count int
	for range w.Results() {
		count++
	}
	if count != 5 {
		t.Fatalf("expected 5 drained results, got %d", count)
	}
}

func TestStopUnderBackpressureDoesNotPanic(t *testing.T) {
	w := NewEngineWorker(logger.Nop(), testDispatcher(), nil, WorkerConfig{QueueSize: 16, ResultBuffer: 1})
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Fill the result buffer and leave the consumer goroutine blocked on the
	// next send: nothing reads Results during the stop.
	for i := 0; i < 3; i++ {
		task := models.Task{ID: fmt.Sprintf("bp-%d", i), Payload: models.PortfolioPayload{Holdings: map[string]float64{}}}
		if err := w.Submit(context.Background(), task); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := w.Stop(ctx); err == nil {
		t.Fatal("expected a drain timeout with an unread result stream")
	}

	// The abandoned drain released the blocked send; a second stop must find
	// the consumer gone and close the stream without panicking.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if err := w.Stop(ctx2); err != nil {
		t.Fatalf("second stop: %v", err)
	}

	res, ok := <-w.Results()
	if !ok || res.ID != "bp-0" {
		t.Fatalf("expected the buffered result bp-0, got %+v ok=%v", res, ok)
	}
	if _, ok := <-w.Results(); ok {
		t.Fatal("expected the result stream to be closed")
	}
}
