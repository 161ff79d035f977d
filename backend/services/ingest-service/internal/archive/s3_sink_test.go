package archive

import (
	"context"
	"testing"

	"visiflow/backend/services/ingest-service/internal/models"
)

func TestObjectKeyLayout(t *testing.T) {
	rec := models.OutputRecord{
		RecordID: "rec-42",
		Result:   models.ResultOk,
		Metadata: &models.Metadata{
			PartitionKeys: models.PartitionKeys{
				DeviceID: "d1",
				Year:     "2026",
				Month:    "08",
				Day:      "29",
				Hour:     "23",
			},
		},
	}

	got := objectKey("", rec)
	want := "device_id=d1/year=2026/month=08/day=29/hour=23/rec-42.json"
	if got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}

	got = objectKey("telemetry/", rec)
	if got != "telemetry/"+want {
		t.Fatalf("prefixed key = %q", got)
	}
}

func TestNewSinkRequiresBucket(t *testing.T) {
	if _, err := NewSink(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}
