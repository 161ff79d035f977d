package persist

import "visiflow/backend/services/ingest-service/internal/models"

// family declares one metric family: the payload fields it requires and
// the insert that stores it. A family is written only when every required
// field is present; params bind as (device_id, timestamp, fields...).
type family struct {
	name   string
	fields []string
	insert string
}

var families = []family{
	{
		name:   "battery",
		fields: []string{"battery_level"},
		insert: "INSERT INTO telemetry_battery (device_id, timestamp, battery) VALUES ($1, $2, $3)",
	},
	{
		name:   "depth",
		fields: []string{"depth"},
		insert: "INSERT INTO telemetry_depth (device_id, timestamp, depth) VALUES ($1, $2, $3)",
	},
	{
		name:   "velocity_radar",
		fields: []string{"mean_velocity", "velocity"},
		insert: "INSERT INTO telemetry_velocity_radar (device_id, timestamp, mean_velocity, section_velocity) VALUES ($1, $2, $3, $4)",
	},
	{
		name:   "velocity_video",
		fields: []string{"video_mean_velocity", "video_velocity"},
		insert: "INSERT INTO telemetry_velocity_video (device_id, timestamp, mean_velocity, section_velocity) VALUES ($1, $2, $3, $4)",
	},
	{
		name:   "river_flow",
		fields: []string{"flow_in_litres"},
		insert: "INSERT INTO telemetry_river_flow (device_id, timestamp, flow_litres) VALUES ($1, $2, $3)",
	},
	{
		name:   "width",
		fields: []string{"width"},
		insert: "INSERT INTO telemetry_width (device_id, timestamp, width) VALUES ($1, $2, $3)",
	},
	{
		name:   "discharge",
		fields: []string{"discharge"},
		insert: "INSERT INTO telemetry_discharge (device_id, timestamp, discharge) VALUES ($1, $2, $3)",
	},
	{
		name:   "flow_angle",
		fields: []string{"flow_angle"},
		insert: "INSERT INTO telemetry_flow_angle (device_id, timestamp, flow_angle) VALUES ($1, $2, $3)",
	},
	{
		name:   "temperature",
		fields: []string{"temperature"},
		insert: "INSERT INTO telemetry_temperature (device_id, timestamp, temperature) VALUES ($1, $2, $3)",
	},
}

// write is one planned insert for a reading.
type write struct {
	family string
	sql    string
	args   []any
}

// writesFor maps a reading onto the metric families it fully satisfies.
// Every planned write shares the reading's device id and event timestamp.
func writesFor(rec *models.Reading) []write {
	var planned []write
	for _, f := range families {
		args := make([]any, 0, 2+len(f.fields))
		args = append(args, rec.DeviceID, rec.EventTime)

		complete := true
		for _, field := range f.fields {
			v, ok := rec.Value(field)
			if !ok {
				complete = false
				break
			}
			args = append(args, v)
		}
		if !complete {
			continue
		}
		planned = append(planned, write{family: f.name, sql: f.insert, args: args})
	}
	return planned
}
