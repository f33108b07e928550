package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/mapty/internal/geomap"
	"github.com/2beens/mapty/internal/store"
	"github.com/2beens/mapty/internal/telemetry/metrics"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
)

var (
	ErrInvalidInput    = errors.New("invalid workout input")
	ErrFormHidden      = errors.New("no map position selected")
	ErrWorkoutNotFound = errors.New("workout not found")
)

const (
	DefaultZoomLevel        = 13
	DefaultFormRestoreDelay = time.Second

	msgInvalidInputs       = "Inputs needs to be positive number!"
	msgPositionUnavailable = "Can not get your current position 😐"
)

type formState int

const (
	formHidden formState = iota
	formAwaitingInput
)

// App is the workout tracker controller. It owns the workout collection and
// drives the map, the form, the list and the store. All state changes go
// through mu, one at a time.
type App struct {
	mu       sync.Mutex
	state    formState
	pending  workout.Coords
	workouts []workout.Workout

	zoomLevel        int
	formRestoreDelay time.Duration

	mapWidget geomap.Map
	form      Form
	list      WorkoutList
	notifier  Notifier
	store     store.Store
	scheduler Scheduler
	ids       *workout.IDGenerator
	now       func() time.Time
	metrics   *metrics.Manager
}

type NewAppParams struct {
	Map       geomap.Map
	Form      Form
	List      WorkoutList
	Notifier  Notifier
	Store     store.Store
	Metrics   *metrics.Manager
	Scheduler Scheduler
	// optional
	ZoomLevel        int
	FormRestoreDelay time.Duration
	IDs              *workout.IDGenerator
	Now              func() time.Time
}

func NewApp(params NewAppParams) *App {
	a := &App{
		state:            formHidden,
		zoomLevel:        params.ZoomLevel,
		formRestoreDelay: params.FormRestoreDelay,
		mapWidget:        params.Map,
		form:             params.Form,
		list:             params.List,
		notifier:         params.Notifier,
		store:            params.Store,
		scheduler:        params.Scheduler,
		ids:              params.IDs,
		now:              params.Now,
		metrics:          params.Metrics,
	}

	if a.zoomLevel <= 0 {
		a.zoomLevel = DefaultZoomLevel
	}
	if a.formRestoreDelay <= 0 {
		a.formRestoreDelay = DefaultFormRestoreDelay
	}
	if a.scheduler == nil {
		a.scheduler = timeScheduler{}
	}
	if a.ids == nil {
		a.ids = workout.NewIDGenerator()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.metrics == nil {
		a.metrics = metrics.NewTestManager()
	}

	return a
}

// Start restores the persisted workouts and renders them into the list.
// Their markers are placed once the map is ready.
func (a *App) Start(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.start")
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.restore(ctx)
	span.SetAttributes(attribute.Int("workouts.count", len(a.workouts)))
}

func (a *App) restore(ctx context.Context) {
	records, err := a.store.Load(ctx)
	if err != nil {
		log.Warnf("load workouts failed, starting with an empty collection: %s", err)
		a.metrics.CounterStoreFailures.WithLabelValues("load").Inc()
		records = nil
	}

	a.workouts = make([]workout.Workout, 0, len(records))
	for _, r := range records {
		w, err := workout.FromRecord(r)
		if err != nil {
			log.Warnf("skipping stored workout [%s]: %s", r.ID, err)
			continue
		}
		a.workouts = append(a.workouts, w)
		a.renderListEntry(w)
	}

	a.metrics.GaugeWorkouts.Set(float64(len(a.workouts)))
	log.Debugf("restored %d workouts", len(a.workouts))
}

// PositionAcquired loads the map centered on the user position and places the
// markers of all known workouts.
func (a *App) PositionAcquired(ctx context.Context, position workout.Coords) error {
	_, span := tracing.GlobalTracer.Start(ctx, "tracker.positionAcquired")
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mapWidget.Ready() {
		log.Debugln("position acquired, but map already loaded")
		return nil
	}

	if err := a.mapWidget.Initialize(position, a.zoomLevel); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("initialize map: %w", err)
	}
	a.mapWidget.OnClick(a.showForm)

	for _, w := range a.workouts {
		a.renderMarker(w)
	}

	return nil
}

// PositionFailed leaves the app without a map, until a reset.
func (a *App) PositionFailed(err error) {
	log.Warnf("get current position: %s", err)
	a.notifier.Alert(msgPositionUnavailable)
}

// ClickMap forwards a click on the map widget to its handlers.
func (a *App) ClickMap(c workout.Coords) error {
	return a.mapWidget.Click(c)
}

func (a *App) showForm(c workout.Coords) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// handlers run outside the map lock, a reset may have landed in between
	if !a.mapWidget.Ready() {
		log.Debugf("map click [%f, %f] dropped, map not loaded", c.Lat, c.Lng)
		return
	}

	a.pending = c
	a.state = formAwaitingInput
	a.form.Reveal()
	a.form.FocusDistance()
}

func (a *App) hideForm() {
	a.form.ClearFields()
	a.form.SetDisplay(displayNone)
	a.form.Hide()
	a.scheduler.AfterFunc(a.formRestoreDelay, func() {
		a.form.SetDisplay(displayGrid)
	})
	a.state = formHidden
}

// ToggleMetricField switches between the cadence and the elevation input.
func (a *App) ToggleMetricField() {
	a.form.ToggleMetricRows()
}

// SubmitWorkout validates the form values, records the new workout, renders it
// and persists the whole collection.
func (a *App) SubmitWorkout(ctx context.Context, values FormValues) (_ workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.submitWorkout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != formAwaitingInput {
		return workout.Workout{}, ErrFormHidden
	}

	typ, err := workout.ParseType(values.Type)
	if err != nil {
		return workout.Workout{}, a.rejectInput(values.Type, err)
	}
	span.SetAttributes(attribute.String("workout.type", typ.String()))

	distance := parseNumber(values.Distance)
	duration := parseNumber(values.Duration)
	now := a.now()
	if loc, ok := clientZone(values.TZOffset); ok {
		now = now.In(loc)
	}

	var w workout.Workout
	switch typ {
	case workout.TypeRunning:
		cadence := parseNumber(values.Cadence)
		if !allFinite(distance, duration, cadence) || !allPositive(distance, duration, cadence) {
			return workout.Workout{}, a.rejectInput(typ.String(), nil)
		}
		w = workout.NewRunning(a.ids, now, a.pending, distance, duration, cadence)
	case workout.TypeCycling:
		// elevation gain is signed, a descent is a valid ride
		elevation := parseNumber(values.Elevation)
		if !allFinite(distance, duration, elevation) || !allPositive(distance, duration) {
			return workout.Workout{}, a.rejectInput(typ.String(), nil)
		}
		w = workout.NewCycling(a.ids, now, a.pending, distance, duration, elevation)
	}

	a.workouts = append(a.workouts, w)
	a.metrics.CounterWorkouts.WithLabelValues(typ.String()).Inc()
	a.metrics.GaugeWorkouts.Set(float64(len(a.workouts)))

	a.renderMarker(w)
	a.renderListEntry(w)
	a.hideForm()
	a.persist(ctx)

	log.Debugf("new workout [%s]: %s", w.ID, w.Description)
	return w, nil
}

func (a *App) rejectInput(typ string, cause error) error {
	a.metrics.CounterInvalidInputs.WithLabelValues(typ).Inc()
	a.notifier.Alert(msgInvalidInputs)
	if cause != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, cause)
	}
	return ErrInvalidInput
}

func (a *App) renderMarker(w workout.Workout) {
	if err := a.mapWidget.PlaceMarker(w.Coords, w.PopupText(), w.PopupClassName()); err != nil {
		log.Warnf("place marker for workout [%s]: %s", w.ID, err)
		return
	}
	a.metrics.CounterMarkers.Inc()
}

func (a *App) renderListEntry(w workout.Workout) {
	if err := a.list.Append(w); err != nil {
		log.Errorf("render workout [%s]: %s", w.ID, err)
	}
}

// persist is best effort: a failed save keeps the in-memory collection as is.
func (a *App) persist(ctx context.Context) {
	if err := a.store.Save(ctx, workout.Records(a.workouts)); err != nil {
		log.Errorf("save workouts: %s", err)
		a.metrics.CounterStoreFailures.WithLabelValues("save").Inc()
	}
}

// MoveToPopup centers the map on the workout with the given id.
// It returns ErrWorkoutNotFound for unknown ids and geomap.ErrMapNotReady
// when the map is not loaded yet.
func (a *App) MoveToPopup(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var found *workout.Workout
	for i := range a.workouts {
		if a.workouts[i].ID == id {
			found = &a.workouts[i]
			break
		}
	}
	if found == nil {
		log.Tracef("move to popup: no workout with id [%s]", id)
		return ErrWorkoutNotFound
	}

	if err := a.mapWidget.Recenter(found.Coords, a.zoomLevel, true); err != nil {
		return fmt.Errorf("move to popup [%s]: %w", id, err)
	}
	return nil
}

// Reset removes the stored workouts and starts over, as if the page was reloaded.
func (a *App) Reset(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.reset")
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Clear(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		a.metrics.CounterStoreFailures.WithLabelValues("clear").Inc()
		return fmt.Errorf("clear workouts: %w", err)
	}

	a.state = formHidden
	a.pending = workout.Coords{}
	a.workouts = nil
	a.form.Reset()
	a.list.Clear()
	a.mapWidget.Reset()

	a.restore(ctx)
	log.Infoln("tracker reset")
	return nil
}

func (a *App) Workouts() []workout.Workout {
	a.mu.Lock()
	defer a.mu.Unlock()
	workouts := make([]workout.Workout, len(a.workouts))
	copy(workouts, a.workouts)
	return workouts
}

type State struct {
	Map      geomap.View  `json:"map"`
	Form     FormSnapshot `json:"form"`
	Workouts []ListEntry  `json:"workouts"`
}

func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Map:      a.mapWidget.View(),
		Form:     a.form.Snapshot(),
		Workouts: a.list.Entries(),
	}
}
