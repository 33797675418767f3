package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Summary is the operational snapshot shown on the admin dashboard.
type Summary struct {
	TotalToday     int64    `json:"total_today"`
	Revenue        float64  `json:"revenue"`
	AvailableRooms int64    `json:"available_rooms"`
	Pending        int64    `json:"pending"`
	ChartLabels    []string `json:"chart_labels"`
	ChartData      []int64  `json:"chart_data"`
}

// Interval is a closed range of calendar days.
type Interval struct {
	From time.Time
	To   time.Time
}

type intervalJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalJSON{From: i.From.Format(DayLayout), To: i.To.Format(DayLayout)})
}

func (i *Interval) UnmarshalJSON(data []byte) error {
	var raw intervalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	from, err := time.Parse(DayLayout, raw.From)
	if err != nil {
		return err
	}
	to, err := time.Parse(DayLayout, raw.To)
	if err != nil {
		return err
	}
	i.From, i.To = from, to
	return nil
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Summary sources.
const (
	SourceRemote      = "remote"
	SourceComputed    = "computed"
	SourceUnavailable = "unavailable"
)

// SummaryResult is a summary plus where it came from. Degraded lists the
// collections that failed to load and were treated as empty.
type SummaryResult struct {
	Summary
	Source   string   `json:"source"`
	Degraded []string `json:"degraded,omitempty"`
}

// SummaryFromRecord normalizes a remote summary payload. It reports false
// when the chart arrays are missing or of different lengths, in which case
// the payload is not usable.
func SummaryFromRecord(r Record) (Summary, bool) {
	labels, ok := r.First("chart_labels", "labels")
	if !ok {
		return Summary{}, false
	}
	data, ok := r.First("chart_data", "data")
	if !ok {
		return Summary{}, false
	}
	rawLabels, ok := labels.([]any)
	if !ok {
		return Summary{}, false
	}
	rawData, ok := data.([]any)
	if !ok || len(rawLabels) != len(rawData) {
		return Summary{}, false
	}

	s := Summary{
		TotalToday:     r.Int("total_today"),
		Revenue:        r.Float("revenue"),
		AvailableRooms: r.Int("available_rooms"),
		Pending:        r.Int("pending"),
		ChartLabels:    make([]string, len(rawLabels)),
		ChartData:      make([]int64, len(rawData)),
	}
	for i := range rawLabels {
		item := Record{"v": rawLabels[i]}
		s.ChartLabels[i] = item.String("v")
		item["v"] = rawData[i]
		s.ChartData[i] = item.Int("v")
	}
	return s, true
}
