package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/mapty/internal/geomap"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
	"github.com/2beens/mapty/pkg"
)

const maxPositionBodyBytes = 1 << 10

type positionLocator interface {
	Locate(ctx context.Context, userIP string) (workout.Coords, error)
}

type StateResponse struct {
	State
	Alerts []string `json:"alerts"`
}

type SubmitResponse struct {
	StateResponse
	Workout *workout.Record `json:"workout,omitempty"`
}

type ListResponse struct {
	Workouts []workout.Record `json:"workouts"`
	Total    int              `json:"total"`
}

type positionRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

type Handler struct {
	app     *App
	alerts  *AlertQueue
	locator positionLocator
}

func NewHandler(app *App, alerts *AlertQueue, locator positionLocator) *Handler {
	return &Handler{
		app:     app,
		alerts:  alerts,
		locator: locator,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/state", handler.HandleState).Methods("GET")
	r.HandleFunc("/map/position", handler.HandlePosition).Methods("POST", "OPTIONS")
	r.HandleFunc("/map/click", handler.HandleMapClick).Methods("POST", "OPTIONS")
	r.HandleFunc("/form/type", handler.HandleToggleType).Methods("POST", "OPTIONS")
	r.HandleFunc("/workouts", handler.HandleSubmit).Methods("POST", "OPTIONS")
	r.HandleFunc("/workouts", handler.HandleList).Methods("GET")
	r.HandleFunc("/workouts/{id}/focus", handler.HandleFocus).Methods("POST", "OPTIONS")
}

func (handler *Handler) HandleState(w http.ResponseWriter, _ *http.Request) {
	handler.writeState(w, http.StatusOK)
}

func (handler *Handler) HandlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.position")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPositionBodyBytes))
	if err != nil {
		http.Error(w, "error, read position", http.StatusBadRequest)
		return
	}

	var position workout.Coords
	if len(body) == 0 {
		position, err = handler.locateClient(ctx, r)
		if err != nil {
			handler.app.PositionFailed(err)
			handler.writeState(w, http.StatusOK)
			return
		}
	} else {
		var req positionRequest
		if err := json.Unmarshal(body, &req); err != nil {
			log.Tracef("position, unmarshal json params: %s", err)
			http.Error(w, "error, invalid position", http.StatusBadRequest)
			return
		}
		if req.Error != "" {
			handler.app.PositionFailed(errors.New(req.Error))
			handler.writeState(w, http.StatusOK)
			return
		}
		if req.Lat == nil || req.Lng == nil {
			http.Error(w, "error, lat or lng missing", http.StatusBadRequest)
			return
		}
		position = workout.Coords{Lat: *req.Lat, Lng: *req.Lng}
	}

	if err := handler.app.PositionAcquired(ctx, position); err != nil {
		log.Errorf("position acquired [%f, %f]: %s", position.Lat, position.Lng, err)
		http.Error(w, "error, load map", http.StatusInternalServerError)
		return
	}

	handler.writeState(w, http.StatusOK)
}

func (handler *Handler) locateClient(ctx context.Context, r *http.Request) (workout.Coords, error) {
	if handler.locator == nil {
		return workout.Coords{}, errors.New("no position locator")
	}
	userIP, err := pkg.ReadUserIP(r)
	if err != nil {
		return workout.Coords{}, err
	}
	return handler.locator.Locate(ctx, userIP)
}

func (handler *Handler) HandleMapClick(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var c workout.Coords
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		log.Tracef("map click, unmarshal json params: %s", err)
		http.Error(w, "error, invalid click position", http.StatusBadRequest)
		return
	}

	if err := handler.app.ClickMap(c); err != nil {
		if errors.Is(err, geomap.ErrMapNotReady) {
			http.Error(w, "error, map not loaded", http.StatusConflict)
			return
		}
		log.Errorf("map click [%f, %f]: %s", c.Lat, c.Lng, err)
		http.Error(w, "error, map click", http.StatusInternalServerError)
		return
	}

	handler.writeState(w, http.StatusOK)
}

func (handler *Handler) HandleToggleType(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	handler.app.ToggleMetricField()
	handler.writeState(w, http.StatusOK)
}

func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.submit")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "error, invalid form", http.StatusBadRequest)
		return
	}

	values := FormValues{
		Type:      r.Form.Get("type"),
		Distance:  r.Form.Get("distance"),
		Duration:  r.Form.Get("duration"),
		Cadence:   r.Form.Get("cadence"),
		Elevation: r.Form.Get("elevation"),
		TZOffset:  r.Form.Get("tz_offset"),
	}

	created, err := handler.app.SubmitWorkout(ctx, values)
	switch {
	case errors.Is(err, ErrFormHidden):
		http.Error(w, "error, no map position selected", http.StatusConflict)
		return
	case errors.Is(err, ErrInvalidInput):
		log.Tracef("submit workout, invalid input: %s", err)
		handler.writeJSON(w, SubmitResponse{StateResponse: handler.stateResponse()}, http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("submit workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	record := created.Record()
	handler.writeJSON(w, SubmitResponse{
		StateResponse: handler.stateResponse(),
		Workout:       &record,
	}, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, _ *http.Request) {
	workouts := handler.app.Workouts()
	handler.writeJSON(w, ListResponse{
		Workouts: workout.Records(workouts),
		Total:    len(workouts),
	}, http.StatusOK)
}

func (handler *Handler) HandleFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.app.MoveToPopup(id); err != nil {
		switch {
		case errors.Is(err, ErrWorkoutNotFound):
			http.Error(w, "workout not found", http.StatusNotFound)
		case errors.Is(err, geomap.ErrMapNotReady):
			http.Error(w, "error, map not loaded", http.StatusConflict)
		default:
			log.Errorf("focus workout [%s]: %s", id, err)
			http.Error(w, "error, focus workout", http.StatusInternalServerError)
		}
		return
	}

	handler.writeState(w, http.StatusOK)
}

func (handler *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := handler.app.Reset(r.Context()); err != nil {
		log.Errorf("reset: %s", err)
		http.Error(w, "error, reset failed", http.StatusInternalServerError)
		return
	}

	handler.writeState(w, http.StatusOK)
}

func (handler *Handler) stateResponse() StateResponse {
	return StateResponse{
		State:  handler.app.Snapshot(),
		Alerts: handler.alerts.Drain(),
	}
}

func (handler *Handler) writeState(w http.ResponseWriter, statusCode int) {
	handler.writeJSON(w, handler.stateResponse(), statusCode)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any, statusCode int) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "error, marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, statusCode)
}
