package geomap

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/mapty/internal/workout"
)

var ErrMapNotReady = errors.New("map not initialized")

//go:generate mockgen -source=$GOFILE -destination=../tracker/map_mocks_test.go -package=tracker_test

// Map is the embeddable interactive map widget, as seen by the tracker.
type Map interface {
	Initialize(center workout.Coords, zoom int) error
	Ready() bool
	// OnClick registers a handler invoked with every clicked position.
	OnClick(handler func(workout.Coords))
	// Click delivers a click coming from the widget to the registered handlers.
	Click(c workout.Coords) error
	PlaceMarker(c workout.Coords, popupText, className string) error
	Recenter(c workout.Coords, zoom int, animate bool) error
	View() View
	Reset()
}

type TileLayer struct {
	URLTemplate string   `json:"urlTemplate"`
	Subdomains  []string `json:"subdomains"`
	MaxZoom     int      `json:"maxZoom"`
}

type PopupOptions struct {
	MaxWidth     int    `json:"maxWidth"`
	MinWidth     int    `json:"minWidth"`
	AutoClose    bool   `json:"autoClose"`
	CloseOnClick bool   `json:"closeOnClick"`
	ClassName    string `json:"className"`
}

type Marker struct {
	Coords    workout.Coords `json:"coords"`
	PopupText string         `json:"popupText"`
	Popup     PopupOptions   `json:"popup"`
	PopupOpen bool           `json:"popupOpen"`
}

type Pan struct {
	Animate  bool    `json:"animate"`
	Duration float64 `json:"durationSec"`
}

// View is what the client needs to draw the widget.
type View struct {
	Ready   bool           `json:"ready"`
	Center  workout.Coords `json:"center"`
	Zoom    int            `json:"zoom"`
	Pan     Pan            `json:"pan"`
	Tiles   TileLayer      `json:"tiles"`
	Markers []Marker       `json:"markers"`
}

var _ Map = (*Leaflet)(nil)

// Leaflet keeps the state of a Leaflet map living in the client.
type Leaflet struct {
	mu            sync.Mutex
	tiles         TileLayer
	panDuration   time.Duration
	ready         bool
	center        workout.Coords
	zoom          int
	pan           Pan
	markers       []Marker
	clickHandlers []func(workout.Coords)
}

func NewLeaflet(tiles TileLayer) *Leaflet {
	if tiles.MaxZoom <= 0 {
		tiles.MaxZoom = 20
	}
	return &Leaflet{
		tiles:       tiles,
		panDuration: time.Second,
	}
}

func (l *Leaflet) Initialize(center workout.Coords, zoom int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ready = true
	l.center = center
	l.zoom = l.clampZoom(zoom)
	l.pan = Pan{}
	log.Debugf("map initialized at [%f, %f], zoom %d", center.Lat, center.Lng, l.zoom)

	return nil
}

func (l *Leaflet) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

func (l *Leaflet) OnClick(handler func(workout.Coords)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clickHandlers = append(l.clickHandlers, handler)
}

func (l *Leaflet) Click(c workout.Coords) error {
	l.mu.Lock()
	if !l.ready {
		l.mu.Unlock()
		return ErrMapNotReady
	}
	handlers := make([]func(workout.Coords), len(l.clickHandlers))
	copy(handlers, l.clickHandlers)
	l.mu.Unlock()

	// handlers are called without holding the lock, they may call back into the map
	for _, h := range handlers {
		h(c)
	}
	return nil
}

func (l *Leaflet) PlaceMarker(c workout.Coords, popupText, className string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return ErrMapNotReady
	}

	l.markers = append(l.markers, Marker{
		Coords:    c,
		PopupText: popupText,
		Popup: PopupOptions{
			MaxWidth:     250,
			MinWidth:     100,
			AutoClose:    false,
			CloseOnClick: false,
			ClassName:    className,
		},
		PopupOpen: true,
	})
	return nil
}

func (l *Leaflet) Recenter(c workout.Coords, zoom int, animate bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return ErrMapNotReady
	}

	l.center = c
	l.zoom = l.clampZoom(zoom)
	l.pan = Pan{Animate: animate}
	if animate {
		l.pan.Duration = l.panDuration.Seconds()
	}
	return nil
}

func (l *Leaflet) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	markers := make([]Marker, len(l.markers))
	copy(markers, l.markers)

	return View{
		Ready:   l.ready,
		Center:  l.center,
		Zoom:    l.zoom,
		Pan:     l.pan,
		Tiles:   l.tiles,
		Markers: markers,
	}
}

// Reset brings the widget back to its state before Initialize.
func (l *Leaflet) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ready = false
	l.center = workout.Coords{}
	l.zoom = 0
	l.pan = Pan{}
	l.markers = nil
	l.clickHandlers = nil
}

func (l *Leaflet) clampZoom(zoom int) int {
	if zoom < 0 {
		return 0
	}
	if zoom > l.tiles.MaxZoom {
		return l.tiles.MaxZoom
	}
	return zoom
}
