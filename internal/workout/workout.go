package workout

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownType = errors.New("unknown workout type")

// Type is the discriminator of the Workout union. It can be one of:
//   - running
//   - cycling
type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeRunning, TypeCycling:
		return true
	default:
		return false
	}
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Coords is a [latitude, longitude] pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Running struct {
	CadenceSpm   float64
	PaceMinPerKm float64
}

type Cycling struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Workout is a recorded exercise session. Exactly one of Running / Cycling is set,
// matching Type. Values are built once by NewRunning / NewCycling / FromRecord and
// never mutated afterwards.
type Workout struct {
	ID          string
	Type        Type
	CreatedAt   time.Time
	Coords      Coords
	DistanceKm  float64
	DurationMin float64
	Description string

	Running *Running
	Cycling *Cycling
}

func NewRunning(
	ids *IDGenerator,
	now time.Time,
	coords Coords,
	distanceKm, durationMin, cadenceSpm float64,
) Workout {
	return Workout{
		ID:          ids.Next(now),
		Type:        TypeRunning,
		CreatedAt:   now,
		Coords:      coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Description: ComputeDescription(TypeRunning, now),
		Running: &Running{
			CadenceSpm:   cadenceSpm,
			PaceMinPerKm: ComputePace(durationMin, distanceKm),
		},
	}
}

func NewCycling(
	ids *IDGenerator,
	now time.Time,
	coords Coords,
	distanceKm, durationMin, elevationGainM float64,
) Workout {
	return Workout{
		ID:          ids.Next(now),
		Type:        TypeCycling,
		CreatedAt:   now,
		Coords:      coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Description: ComputeDescription(TypeCycling, now),
		Cycling: &Cycling{
			ElevationGainM: elevationGainM,
			SpeedKmPerH:    ComputeSpeed(distanceKm, durationMin),
		},
	}
}

func (w Workout) Icon() string {
	if w.Type == TypeRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

func (w Workout) PopupClassName() string {
	return fmt.Sprintf("%s-popup", w.Type)
}

func (w Workout) PopupText() string {
	return fmt.Sprintf("%s %s", w.Icon(), w.Description)
}
