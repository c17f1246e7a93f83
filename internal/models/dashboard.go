package models

import (
	"bytes"
	"encoding/json"
)

// Count is one bucket of a breakdown.
type Count struct {
	Key   string
	Count int64
}

// CountSeries is an ordered breakdown. It serializes as a JSON object whose
// keys keep the slice order.
type CountSeries []Count

// Get returns the count stored under key.
func (s CountSeries) Get(key string) (int64, bool) {
	for _, c := range s {
		if c.Key == key {
			return c.Count, true
		}
	}
	return 0, false
}

// Keys returns the bucket keys in order.
func (s CountSeries) Keys() []string {
	keys := make([]string, len(s))
	for i, c := range s {
		keys[i] = c.Key
	}
	return keys
}

// MarshalJSON writes {"key": count, ...} in slice order.
func (s CountSeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DashboardStats is the derived, non-persisted summary shown on the dashboard.
type DashboardStats struct {
	TotalPatients         int64       `json:"totalPatients"`
	TotalAppointments     int64       `json:"totalAppointments"`
	UpcomingAppointments  int64       `json:"upcomingAppointments"`
	AppointmentsPerDoctor CountSeries `json:"appointmentsPerDoctor"`
	StatusBreakdown       CountSeries `json:"statusBreakdown"`
	AppointmentsPerDay    CountSeries `json:"appointmentsPerDay"`
}
