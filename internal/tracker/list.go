package tracker

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"sync"

	"github.com/2beens/mapty/internal/workout"
)

// WorkoutList is the container of rendered workout entries.
type WorkoutList interface {
	Append(w workout.Workout) error
	Clear()
	Entries() []ListEntry
}

type ListEntry struct {
	ID   string       `json:"id"`
	Type workout.Type `json:"type"`
	HTML string       `json:"html"`
}

var entryTemplate = template.Must(template.New("workout").Parse(`
<li class="workout workout--{{.Type}}" data-id="{{.ID}}">
	<h2 class="workout__title">{{.Description}}</h2>
	<div class="workout__details">
		<span class="workout__icon">{{.Icon}}</span>
		<span class="workout__value">{{.Distance}}</span>
		<span class="workout__unit">km</span>
	</div>
	<div class="workout__details">
		<span class="workout__icon">⏱</span>
		<span class="workout__value">{{.Duration}}</span>
		<span class="workout__unit">min</span>
	</div>
	<div class="workout__details">
		<span class="workout__icon">⚡️</span>
		<span class="workout__value">{{.Rate}}</span>
		<span class="workout__unit">{{.RateUnit}}</span>
	</div>
	<div class="workout__details">
		<span class="workout__icon">{{.MetricIcon}}</span>
		<span class="workout__value">{{.Metric}}</span>
		<span class="workout__unit">{{.MetricUnit}}</span>
	</div>
</li>
`))

type entryView struct {
	ID          string
	Type        workout.Type
	Description string
	Icon        string
	Distance    string
	Duration    string
	Rate        string
	RateUnit    string
	MetricIcon  string
	Metric      string
	MetricUnit  string
}

// RenderEntry renders the list markup of a single workout.
func RenderEntry(w workout.Workout) (string, error) {
	v := entryView{
		ID:          w.ID,
		Type:        w.Type,
		Description: w.Description,
		Icon:        w.Icon(),
		Distance:    formatNumber(w.DistanceKm),
		Duration:    formatNumber(w.DurationMin),
	}

	switch w.Type {
	case workout.TypeRunning:
		v.Rate = fmt.Sprintf("%.1f", w.Running.PaceMinPerKm)
		v.RateUnit = "min/km"
		v.MetricIcon = "🦶🏼"
		v.Metric = formatNumber(w.Running.CadenceSpm)
		v.MetricUnit = "spm"
	case workout.TypeCycling:
		v.Rate = fmt.Sprintf("%.1f", w.Cycling.SpeedKmPerH)
		v.RateUnit = "km/h"
		v.MetricIcon = "⛰"
		v.Metric = formatNumber(w.Cycling.ElevationGainM)
		v.MetricUnit = "m"
	default:
		return "", fmt.Errorf("%w: %q", workout.ErrUnknownType, w.Type)
	}

	var buf bytes.Buffer
	if err := entryTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("execute workout template: %w", err)
	}
	return buf.String(), nil
}

var _ WorkoutList = (*ListView)(nil)

// ListView keeps the rendered entries in render order. The client inserts each
// one right after the form, so the newest entry shows up on top.
type ListView struct {
	mu      sync.Mutex
	entries []ListEntry
}

func NewListView() *ListView {
	return &ListView{}
}

func (l *ListView) Append(w workout.Workout) error {
	html, err := RenderEntry(w)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, ListEntry{
		ID:   w.ID,
		Type: w.Type,
		HTML: html,
	})
	return nil
}

func (l *ListView) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *ListView) Entries() []ListEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]ListEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// formatNumber prints numbers the way the browser does: no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
