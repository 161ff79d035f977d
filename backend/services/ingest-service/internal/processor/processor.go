package processor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"visiflow/backend/services/ingest-service/internal/metrics"
	"visiflow/backend/services/ingest-service/internal/models"
	"visiflow/backend/services/ingest-service/internal/timestamp"
)

// DeviceValidator decides whether a record's device identifier is
// acceptable under the configured policy.
type DeviceValidator interface {
	Validate(ctx context.Context, deviceID string) error
}

// Persister stores one reading's metric rows transactionally.
type Persister interface {
	Persist(ctx context.Context, rec *models.Reading) error
}

// Processor turns one input record into exactly one output record. Every
// failure mode is converted into a ProcessingFailed output carrying the
// original payload untouched; nothing propagates to the batch loop.
type Processor struct {
	validator DeviceValidator
	persister Persister
	now       func() time.Time
	logger    *zap.Logger
}

// NewProcessor wires the per-record pipeline.
func NewProcessor(validator DeviceValidator, persister Persister, logger *zap.Logger) *Processor {
	return &Processor{
		validator: validator,
		persister: persister,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the time source, for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// Process runs one record through decode, validation, timestamping and
// persistence, then re-encodes it with a processing timestamp.
func (p *Processor) Process(ctx context.Context, in models.InputRecord) models.OutputRecord {
	raw, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return p.failed(in, "decode", fmt.Errorf("%w: base64: %v", ErrDecode, err))
	}

	payload, err := parsePayload(raw)
	if err != nil {
		return p.failed(in, "decode", fmt.Errorf("%w: %v", ErrDecode, err))
	}

	deviceID, _ := payload["device_id"].(string)
	if err := p.validator.Validate(ctx, deviceID); err != nil {
		return p.failed(in, "validate", err)
	}

	rawTS, _ := payload["timestamp"].(string)
	eventTime, parsed := timestamp.Resolve(rawTS, p.now)
	if !parsed && rawTS != "" {
		p.logger.Warn("unparseable timestamp, falling back to processing time",
			zap.String("record_id", in.RecordID),
			zap.String("timestamp", rawTS))
	}

	reading := &models.Reading{
		DeviceID:  deviceID,
		EventTime: eventTime,
		Fields:    payload,
	}
	if err := p.persister.Persist(ctx, reading); err != nil {
		return p.failed(in, "persist", fmt.Errorf("%w: %v", ErrPersistence, err))
	}

	payload["processing_timestamp"] = p.now().UTC().Format(time.RFC3339)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return p.failed(in, "encode", fmt.Errorf("%w: %v", ErrDecode, err))
	}
	encoded = append(encoded, '\n')

	return models.OutputRecord{
		RecordID: in.RecordID,
		Result:   models.ResultOk,
		Data:     base64.StdEncoding.EncodeToString(encoded),
		Metadata: &models.Metadata{
			PartitionKeys: models.PartitionKeys{
				DeviceID: deviceID,
				Year:     fmt.Sprintf("%04d", eventTime.Year()),
				Month:    fmt.Sprintf("%02d", int(eventTime.Month())),
				Day:      fmt.Sprintf("%02d", eventTime.Day()),
				Hour:     fmt.Sprintf("%02d", eventTime.Hour()),
			},
		},
	}
}

// ProcessBatch processes each record independently and returns one output
// per input, in input order. A record's failure never stops the batch.
func (p *Processor) ProcessBatch(ctx context.Context, records []models.InputRecord) []models.OutputRecord {
	outputs := make([]models.OutputRecord, 0, len(records))
	for _, rec := range records {
		outputs = append(outputs, p.Process(ctx, rec))
	}
	return outputs
}

func (p *Processor) failed(in models.InputRecord, step string, err error) models.OutputRecord {
	metrics.IncFailure(step)
	p.logger.Info("record rejected",
		zap.String("record_id", in.RecordID),
		zap.String("step", step),
		zap.Error(err))
	return models.OutputRecord{
		RecordID: in.RecordID,
		Result:   models.ResultProcessingFailed,
		Data:     in.Data,
	}
}

// parsePayload decodes the record body keeping numbers as json.Number so
// device readings survive re-encoding without float drift.
func parsePayload(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("json: %v", err)
	}
	return payload, nil
}
