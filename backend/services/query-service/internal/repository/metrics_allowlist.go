package repository

import "sort"

// Metric maps a dashboard metric name onto its table and value columns.
type Metric struct {
	Table   string
	Columns []string
}

// allowedMetrics is the fixed set of metrics the dashboard may query.
// Only names present here ever reach SQL, so table and column names are
// never taken from request input.
var allowedMetrics = map[string]Metric{
	"temperature":    {Table: "telemetry_temperature", Columns: []string{"temperature"}},
	"battery":        {Table: "telemetry_battery", Columns: []string{"battery"}},
	"depth":          {Table: "telemetry_depth", Columns: []string{"depth"}},
	"velocity_radar": {Table: "telemetry_velocity_radar", Columns: []string{"mean_velocity", "section_velocity"}},
	"velocity_video": {Table: "telemetry_velocity_video", Columns: []string{"mean_velocity", "section_velocity"}},
	"river_flow":     {Table: "telemetry_river_flow", Columns: []string{"flow_litres"}},
	"discharge":      {Table: "telemetry_discharge", Columns: []string{"discharge"}},
}

// Allowed resolves a metric name against the allow-list.
func Allowed(name string) (Metric, bool) {
	m, ok := allowedMetrics[name]
	return m, ok
}

// MetricNames returns the allow-list names, sorted, for error messages.
func MetricNames() []string {
	names := make([]string, 0, len(allowedMetrics))
	for name := range allowedMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
