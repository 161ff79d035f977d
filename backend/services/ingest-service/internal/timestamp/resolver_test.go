package timestamp

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	fixed := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	tests := []struct {
		name       string
		raw        string
		want       time.Time
		wantParsed bool
	}{
		{
			name:       "valid timestamp",
			raw:        "2026-03-15 08:45:12",
			want:       time.Date(2026, 3, 15, 8, 45, 12, 0, time.UTC),
			wantParsed: true,
		},
		{
			name:       "subsecond fraction truncated",
			raw:        "2026-03-15 08:45:12.934211",
			want:       time.Date(2026, 3, 15, 8, 45, 12, 0, time.UTC),
			wantParsed: true,
		},
		{
			name:       "empty falls back to now",
			raw:        "",
			want:       fixed,
			wantParsed: false,
		},
		{
			name:       "garbage falls back to now",
			raw:        "not-a-timestamp",
			want:       fixed,
			wantParsed: false,
		},
		{
			name:       "wrong layout falls back to now",
			raw:        "15/03/2026 08:45",
			want:       fixed,
			wantParsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := Resolve(tt.raw, now)
			if parsed != tt.wantParsed {
				t.Fatalf("parsed = %v, want %v", parsed, tt.wantParsed)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
