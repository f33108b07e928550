package workout

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrCorruptRecord = errors.New("corrupt workout record")

// Record is the plain, persisted field-set of a Workout. Only the fields of the
// variant named by Type are set.
type Record struct {
	Type        Type       `json:"type"`
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	Coordinates [2]float64 `json:"coordinates"`
	DistanceKm  float64    `json:"distanceKm"`
	DurationMin float64    `json:"durationMin"`
	Description string     `json:"description"`

	// running
	CadenceSpm *float64 `json:"cadenceSpm,omitempty"`
	Pace       *float64 `json:"pace,omitempty"`

	// cycling
	ElevationGainM *float64 `json:"elevationGainM,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
}

func (w Workout) Record() Record {
	r := Record{
		Type:        w.Type,
		ID:          w.ID,
		CreatedAt:   w.CreatedAt,
		Coordinates: [2]float64{w.Coords.Lat, w.Coords.Lng},
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		Description: w.Description,
	}

	switch w.Type {
	case TypeRunning:
		cadence, pace := w.Running.CadenceSpm, w.Running.PaceMinPerKm
		r.CadenceSpm, r.Pace = &cadence, &pace
	case TypeCycling:
		elevation, speed := w.Cycling.ElevationGainM, w.Cycling.SpeedKmPerH
		r.ElevationGainM, r.Speed = &elevation, &speed
	}

	return r
}

// FromRecord rebuilds the variant from the persisted raw inputs. Derived fields
// (pace, speed, description) are computed again instead of trusted.
func FromRecord(r Record) (Workout, error) {
	if !r.Type.IsValid() {
		return Workout{}, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
	if r.ID == "" {
		return Workout{}, fmt.Errorf("%w: empty id", ErrCorruptRecord)
	}
	if !positive(r.DistanceKm) || !positive(r.DurationMin) {
		return Workout{}, fmt.Errorf("%w [%s]: distance and duration must be positive", ErrCorruptRecord, r.ID)
	}

	w := Workout{
		ID:          r.ID,
		Type:        r.Type,
		CreatedAt:   r.CreatedAt,
		Coords:      Coords{Lat: r.Coordinates[0], Lng: r.Coordinates[1]},
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Description: ComputeDescription(r.Type, r.CreatedAt),
	}

	switch r.Type {
	case TypeRunning:
		if r.CadenceSpm == nil {
			return Workout{}, fmt.Errorf("%w [%s]: missing cadence", ErrCorruptRecord, r.ID)
		}
		w.Running = &Running{
			CadenceSpm:   *r.CadenceSpm,
			PaceMinPerKm: ComputePace(r.DurationMin, r.DistanceKm),
		}
	case TypeCycling:
		if r.ElevationGainM == nil {
			return Workout{}, fmt.Errorf("%w [%s]: missing elevation gain", ErrCorruptRecord, r.ID)
		}
		w.Cycling = &Cycling{
			ElevationGainM: *r.ElevationGainM,
			SpeedKmPerH:    ComputeSpeed(r.DistanceKm, r.DurationMin),
		}
	}

	return w, nil
}

func Records(workouts []Workout) []Record {
	records := make([]Record, 0, len(workouts))
	for _, w := range workouts {
		records = append(records, w.Record())
	}
	return records
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
