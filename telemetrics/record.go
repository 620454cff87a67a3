package telemetrics

import "math"

// Record is the JSON form of a row used by the Redis store, the Kafka
// producer and the dashboard API. Non-finite values are left out.
type Record struct {
	Session    string             `json:"session,omitempty"`
	CapturedAt int64              `json:"captured_at"`
	Values     map[string]float64 `json:"values"`
}

func NewRecord(session string, columns []string, row Row) Record {
	values := make(map[string]float64, len(columns))
	for i, column := range columns {
		if i >= len(row.Values) {
			break
		}
		v := row.Values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values[column] = v
	}
	return Record{
		Session:    session,
		CapturedAt: row.CapturedAt.UnixMilli(),
		Values:     values,
	}
}
