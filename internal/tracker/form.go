package tracker

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/mapty/internal/workout"
)

const (
	displayGrid = "grid"
	displayNone = "none"

	fieldDistance = "distance"

	// UTC-12 .. UTC+14
	minTZOffsetMin = -14 * 60
	maxTZOffsetMin = 12 * 60
)

// FormValues are the raw values of the workout form fields.
type FormValues struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
	// TZOffset is the client's Date.getTimezoneOffset(): minutes UTC is ahead of local time.
	TZOffset string `json:"tzOffset"`
}

// Form is the workout form surface.
type Form interface {
	Reveal()
	Hide()
	FocusDistance()
	ClearFields()
	SetDisplay(mode string)
	// ToggleMetricRows flips the visibility of the cadence and elevation rows.
	ToggleMetricRows()
	Reset()
	Snapshot() FormSnapshot
}

type FormSnapshot struct {
	Hidden          bool       `json:"hidden"`
	Display         string     `json:"display"`
	Focused         string     `json:"focused"`
	Type            string     `json:"type"`
	Values          FormValues `json:"values"`
	CadenceHidden   bool       `json:"cadenceHidden"`
	ElevationHidden bool       `json:"elevationHidden"`
}

var _ Form = (*FormState)(nil)

// FormState keeps the form as the client should draw it.
type FormState struct {
	mu              sync.Mutex
	hidden          bool
	display         string
	focused         string
	values          FormValues
	cadenceHidden   bool
	elevationHidden bool
}

func NewFormState() *FormState {
	f := &FormState{}
	f.reset()
	return f
}

func (f *FormState) Reveal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = false
}

func (f *FormState) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = true
	f.focused = ""
}

func (f *FormState) FocusDistance() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = fieldDistance
}

// ClearFields empties the numeric inputs, the selected type is kept.
func (f *FormState) ClearFields() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = FormValues{Type: f.values.Type}
}

func (f *FormState) SetDisplay(mode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.display = mode
}

func (f *FormState) ToggleMetricRows() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cadenceHidden = !f.cadenceHidden
	f.elevationHidden = !f.elevationHidden
	if f.cadenceHidden {
		f.values.Type = workout.TypeCycling.String()
	} else {
		f.values.Type = workout.TypeRunning.String()
	}
}

func (f *FormState) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *FormState) reset() {
	f.hidden = true
	f.display = displayGrid
	f.focused = ""
	f.values = FormValues{Type: workout.TypeRunning.String()}
	f.cadenceHidden = false
	f.elevationHidden = true
}

func (f *FormState) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormSnapshot{
		Hidden:          f.hidden,
		Display:         f.display,
		Focused:         f.focused,
		Type:            f.values.Type,
		Values:          f.values,
		CadenceHidden:   f.cadenceHidden,
		ElevationHidden: f.elevationHidden,
	}
}

// parseNumber coerces a form field to a number; empty or malformed input gives NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// clientZone turns the client's timezone offset into a location, so workout
// dates are the ones the user sees. Missing or out of range offsets are ignored.
func clientZone(tzOffset string) (*time.Location, bool) {
	s := strings.TrimSpace(tzOffset)
	if s == "" {
		return nil, false
	}
	minutes, err := strconv.Atoi(s)
	if err != nil || minutes < minTZOffsetMin || minutes > maxTZOffsetMin {
		return nil, false
	}
	return time.FixedZone("", -minutes*60), true
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func allPositive(values ...float64) bool {
	for _, v := range values {
		if !(v > 0) {
			return false
		}
	}
	return true
}
