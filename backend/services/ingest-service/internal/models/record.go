package models

import (
	"encoding/json"
	"time"
)

// Result states for a processed record.
const (
	ResultOk               = "Ok"
	ResultProcessingFailed = "ProcessingFailed"
)

// InputRecord is one transport-encoded batch item: a correlation id plus a
// base64 JSON payload.
type InputRecord struct {
	RecordID string `json:"recordId"`
	Data     string `json:"data"`
}

// PartitionKeys route an archived record into the partitioned lake layout.
// All values derive from the record's canonical event timestamp.
type PartitionKeys struct {
	DeviceID string `json:"device_id"`
	Year     string `json:"year"`
	Month    string `json:"month"`
	Day      string `json:"day"`
	Hour     string `json:"hour"`
}

// Metadata wraps partition keys on a successful output record.
type Metadata struct {
	PartitionKeys PartitionKeys `json:"partitionKeys"`
}

// OutputRecord is the per-record processing result. On success Data holds
// the re-encoded payload and Metadata the partition keys; on failure Data
// holds the original payload unchanged and Metadata is absent.
type OutputRecord struct {
	RecordID string    `json:"recordId"`
	Result   string    `json:"result"`
	Data     string    `json:"data"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Reading is one decoded telemetry payload bound for the metric tables.
// Fields holds the raw decoded JSON object; EventTime is the canonical
// event timestamp shared by every row written for this reading.
type Reading struct {
	DeviceID  string
	EventTime time.Time
	Fields    map[string]any
}

// Has reports whether the payload carries the named field.
func (r *Reading) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// Value returns the payload field coerced for database binding. JSON
// numbers decoded via json.Number become float64.
func (r *Reading) Value(key string) (any, bool) {
	v, ok := r.Fields[key]
	if !ok {
		return nil, false
	}
	if n, isNum := v.(json.Number); isNum {
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return n.String(), true
	}
	return v, true
}
