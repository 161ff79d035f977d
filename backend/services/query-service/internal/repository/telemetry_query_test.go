package repository

import (
	"strings"
	"testing"
)

func TestAllowed(t *testing.T) {
	m, ok := Allowed("velocity_radar")
	if !ok {
		t.Fatal("velocity_radar must be allowed")
	}
	if m.Table != "telemetry_velocity_radar" {
		t.Fatalf("table = %s", m.Table)
	}
	if len(m.Columns) != 2 || m.Columns[0] != "mean_velocity" || m.Columns[1] != "section_velocity" {
		t.Fatalf("columns = %v", m.Columns)
	}

	if _, ok := Allowed("salinity"); ok {
		t.Fatal("unlisted metric must be rejected")
	}
	if _, ok := Allowed(""); ok {
		t.Fatal("empty metric must be rejected")
	}
	// width and flow_angle are ingested but not queryable from the
	// dashboard.
	if _, ok := Allowed("width"); ok {
		t.Fatal("width is not in the query allow-list")
	}
}

func TestBuildQueryDateRangeOnly(t *testing.T) {
	m, _ := Allowed("depth")
	sql, args := buildQuery(QueryParams{
		DeviceID:  "d1",
		Metric:    m,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-30",
	})

	if !strings.HasPrefix(sql, "SELECT timestamp, depth FROM telemetry_depth") {
		t.Fatalf("sql = %s", sql)
	}
	if !strings.Contains(sql, "timestamp < ($3::date + interval '1 day')") {
		t.Fatalf("end date must be inclusive: %s", sql)
	}
	if strings.Contains(sql, "timestamp::time") {
		t.Fatalf("no time window requested: %s", sql)
	}
	if !strings.HasSuffix(sql, "ORDER BY timestamp DESC") {
		t.Fatalf("sql = %s", sql)
	}
	if len(args) != 3 || args[0] != "d1" || args[1] != "2026-08-01" || args[2] != "2026-08-30" {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildQueryWithTimeWindow(t *testing.T) {
	m, _ := Allowed("velocity_radar")
	sql, args := buildQuery(QueryParams{
		DeviceID:  "d1",
		Metric:    m,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-30",
		StartTime: "06:00",
		EndTime:   "18:00",
	})

	if !strings.Contains(sql, "mean_velocity, section_velocity") {
		t.Fatalf("sql = %s", sql)
	}
	if !strings.Contains(sql, "timestamp::time >= $4 AND timestamp::time <= $5") {
		t.Fatalf("sql = %s", sql)
	}
	if len(args) != 5 || args[3] != "06:00" || args[4] != "18:00" {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildQueryIgnoresHalfOpenTimeWindow(t *testing.T) {
	m, _ := Allowed("depth")
	sql, args := buildQuery(QueryParams{
		DeviceID:  "d1",
		Metric:    m,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-30",
		StartTime: "06:00",
	})
	if strings.Contains(sql, "timestamp::time") || len(args) != 3 {
		t.Fatalf("half-open window must be ignored: %s %v", sql, args)
	}
}
