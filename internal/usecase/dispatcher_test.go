package usecase

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

func testDispatcher() *Dispatcher {
	return NewDispatcher(logger.Nop(), nil)
}

func pricePoints(n int) []models.PricePoint {
	points := make([]models.PricePoint, n)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		c := 50 + float64(i%7)
		points[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100}
	}
	return points
}

func TestDispatchComputeIndicators(t *testing.T) {
	task := models.Task{
		ID:      "t1",
		Payload: models.IndicatorsPayload{Points: pricePoints(30), Indicators: []string{"SMA_20"}},
	}
	res := testDispatcher().Dispatch(task)

	if res.ID != "t1" {
		t.Fatalf("expected id t1, got %q", res.ID)
	}
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.ProcessingTimeMs < 0 {
		t.Errorf("negative processing time %f", res.ProcessingTimeMs)
	}
	out, ok := res.Value.(models.IndicatorsResult)
	if !ok {
		t.Fatalf("unexpected value type %T", res.Value)
	}
	if len(out.TechnicalIndicators["sma20"]) != 11 {
		t.Errorf("expected 11 sma20 values, got %d", len(out.TechnicalIndicators["sma20"]))
	}
	if len(out.ProcessedData) != 30 {
		t.Errorf("expected processed data echoed, got %d points", len(out.ProcessedData))
	}
}

func TestDispatchFilterSort(t *testing.T) {
	records := []models.StockRecord{
		{Code: "A", CurrentPrice: 10, PriceChange: 1},
		{Code: "B", CurrentPrice: 20, PriceChange: -1},
	}
	task := models.Task{
		ID:      "t2",
		Payload: models.BulkPayload{Records: records, Options: models.FilterSortOptions{GainersOnly: true}, AsKind: models.KindFilterSort},
	}
	res := testDispatcher().Dispatch(task)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	got := res.Value.([]models.StockRecord)
	if len(got) != 1 || got[0].Code != "A" {
		t.Fatalf("expected only A, got %v", got)
	}
}

func TestDispatchUnknownKindFailsWithoutPanic(t *testing.T) {
	res := testDispatcher().Dispatch(models.Task{ID: "t3", Payload: unknownPayload{RawKind: "Recalibrate"}})
	if res.Success {
		t.Fatal("expected failure for unknown kind")
	}
	if res.ErrorKind != "UnsupportedKind" {
		t.Errorf("expected UnsupportedKind, got %q", res.ErrorKind)
	}
	if !strings.Contains(res.Error, "Recalibrate") {
		t.Errorf("error should name the kind, got %q", res.Error)
	}
}

func TestDispatchNilPayloadFails(t *testing.T) {
	res := testDispatcher().Dispatch(models.Task{ID: "t4"})
	if res.Success || res.Error == "" {
		t.Fatalf("expected failure with message, got %+v", res)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := testDispatcher()
	d.handlers["Explode"] = func(models.TaskPayload) (interface{}, error) {
		panic("corrupted payload")
	}

	res := d.Dispatch(models.Task{ID: "t5", Payload: unknownPayload{RawKind: "Explode"}})
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.ErrorKind != "ComputationError" {
		t.Errorf("expected ComputationError, got %q", res.ErrorKind)
	}
	if !strings.Contains(res.Error, "corrupted payload") {
		t.Errorf("expected panic message in error, got %q", res.Error)
	}
}

func TestDecodeEnvelopeNullPayloadFails(t *testing.T) {
	task := DecodeTask(TaskEnvelope{ID: "t6", Kind: "ComputeIndicators", Payload: json.RawMessage("null")})
	res := testDispatcher().Dispatch(task)
	if res.Success {
		t.Fatal("expected failure on null payload")
	}
	if res.ID != "t6" {
		t.Errorf("expected id echoed, got %q", res.ID)
	}
	if res.Error == "" {
		t.Error("expected non-empty error")
	}
}

func TestDecodeEnvelopeRoundTrip(t *testing.T) {
	points, _ := json.Marshal(pricePoints(30))
	opts, _ := json.Marshal([]string{"SMA_20", "RSI"})
	task := DecodeTask(TaskEnvelope{ID: "t7", Kind: "ComputeIndicators", Payload: points, Options: opts})

	p, ok := task.Payload.(models.IndicatorsPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", task.Payload)
	}
	if len(p.Points) != 30 || len(p.Indicators) != 2 {
		t.Fatalf("decode mismatch: %d points, %d indicators", len(p.Points), len(p.Indicators))
	}
	if task.Payload.Kind() != models.KindComputeIndicators {
		t.Errorf("unexpected kind %q", task.Payload.Kind())
	}
}

func TestDecodeEnvelopeUnknownKind(t *testing.T) {
	task := DecodeTask(TaskEnvelope{ID: "t8", Kind: "Transmogrify", Payload: json.RawMessage("[]")})
	if _, ok := task.Payload.(unknownPayload); !ok {
		t.Fatalf("expected unknownPayload, got %T", task.Payload)
	}
}
