package usecase

import (
	"encoding/json"
	"fmt"

	"StockPulse/internal/domain/models"
)

// TaskEnvelope is the JSON wire form of a task, as submitted by external
// callers. The kind string selects the payload shape; in-process callers use
// the typed payloads directly and never see this envelope.
type TaskEnvelope struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
	Options json.RawMessage `json:"options,omitempty"`
}

// DecodeTask turns an envelope into a typed task. Decoding never rejects a
// task outright: unknown kinds and malformed payloads produce a task whose
// dispatch yields a failure result, so the caller always gets a correlated
// answer on the result channel.
func DecodeTask(env TaskEnvelope) models.Task {
	task := models.Task{ID: env.ID}

	switch models.TaskKind(env.Kind) {
	case models.KindComputeIndicators:
		var points []models.PricePoint
		if err := unmarshalRequired(env.Payload, &points); err != nil {
			task.Payload = malformedPayload{kind: env.Kind, err: err}
			return task
		}
		var ids []string
		if len(env.Options) > 0 {
			if err := json.Unmarshal(env.Options, &ids); err != nil {
				task.Payload = malformedPayload{kind: env.Kind, err: fmt.Errorf("options: %w", err)}
				return task
			}
		}
		task.Payload = models.IndicatorsPayload{Points: points, Indicators: ids}

	case models.KindProcessBulk, models.KindFilterSort:
		var records []models.StockRecord
		if err := unmarshalRequired(env.Payload, &records); err != nil {
			task.Payload = malformedPayload{kind: env.Kind, err: err}
			return task
		}
		var opts models.FilterSortOptions
		if len(env.Options) > 0 {
			if err := json.Unmarshal(env.Options, &opts); err != nil {
				task.Payload = malformedPayload{kind: env.Kind, err: fmt.Errorf("options: %w", err)}
				return task
			}
		}
		task.Payload = models.BulkPayload{Records: records, Options: opts, AsKind: models.TaskKind(env.Kind)}

	case models.KindAggregatePortfolio:
		var records []models.StockRecord
		if err := unmarshalRequired(env.Payload, &records); err != nil {
			task.Payload = malformedPayload{kind: env.Kind, err: err}
			return task
		}
		var opts struct {
			Holdings map[string]float64 `json:"holdings"`
		}
		if len(env.Options) > 0 {
			if err := json.Unmarshal(env.Options, &opts); err != nil {
				task.Payload = malformedPayload{kind: env.Kind, err: fmt.Errorf("options: %w", err)}
				return task
			}
		}
		task.Payload = models.PortfolioPayload{Records: records, Holdings: opts.Holdings}

	default:
		task.Payload = unknownPayload{RawKind: env.Kind}
	}

	return task
}

// unmarshalRequired rejects absent or JSON-null payloads instead of silently
// producing an empty slice.
func unmarshalRequired(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("payload is required")
	}
	return json.Unmarshal(raw, dest)
}

// malformedPayload carries a decode failure through dispatch so it surfaces
// as a failure result rather than a transport error.
type malformedPayload struct {
	kind string
	err  error
}

func (m malformedPayload) Kind() models.TaskKind { return models.TaskKind(m.kind) }
