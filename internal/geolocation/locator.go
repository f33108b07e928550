package geolocation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/coocood/freecache"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
)

var ErrPositionUnavailable = errors.New("position unavailable")

const (
	oneHour           = 60 * 60
	positionCacheSize = 10 * 1024 * 1024
)

type ipInfoClient interface {
	GetIPInfo(ip net.IP) (*ipinfo.Core, error)
}

// Locator resolves the position of a client from its IP address.
type Locator struct {
	client      ipInfoClient
	cache       *freecache.Cache
	devPosition *workout.Coords
}

func NewLocator(httpClient *http.Client, token string, devPosition *workout.Coords) *Locator {
	return newLocator(ipinfo.NewClient(httpClient, nil, token), devPosition)
}

func newLocator(client ipInfoClient, devPosition *workout.Coords) *Locator {
	return &Locator{
		client:      client,
		cache:       freecache.NewCache(positionCacheSize),
		devPosition: devPosition,
	}
}

func (l *Locator) Locate(ctx context.Context, userIP string) (_ workout.Coords, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "geolocation.locate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user.ip", userIP))

	if userIP == "localhost" {
		userIP = "127.0.0.1"
	}
	ip := net.ParseIP(userIP)
	if ip == nil {
		return workout.Coords{}, fmt.Errorf("%w: invalid ip [%s]", ErrPositionUnavailable, userIP)
	}

	// used for development
	if ip.IsLoopback() || ip.IsPrivate() {
		if l.devPosition == nil {
			return workout.Coords{}, fmt.Errorf("%w: local ip [%s]", ErrPositionUnavailable, userIP)
		}
		log.Debugf("locate: returning development position for [%s]", userIP)
		return *l.devPosition, nil
	}

	cacheKey := []byte("loc::" + userIP)
	if cached, err := l.cache.Get(cacheKey); err == nil {
		span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
		if c, err := parseLoc(string(cached)); err == nil {
			return c, nil
		}
	}

	info, err := l.client.GetIPInfo(ip)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("%w: ipinfo [%s]: %s", ErrPositionUnavailable, userIP, err)
	}
	if info == nil || info.Bogon || info.Location == "" {
		return workout.Coords{}, fmt.Errorf("%w: no location for [%s]", ErrPositionUnavailable, userIP)
	}

	c, err := parseLoc(info.Location)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, err)
	}

	if err := l.cache.Set(cacheKey, []byte(info.Location), oneHour); err != nil {
		log.Errorf("failed to cache position for [%s]: %s", userIP, err)
	}

	return c, nil
}

// parseLoc parses the ipinfo "lat,lng" location format.
func parseLoc(loc string) (workout.Coords, error) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return workout.Coords{}, fmt.Errorf("invalid location [%s]", loc)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("invalid latitude [%s]: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("invalid longitude [%s]: %w", parts[1], err)
	}
	return workout.Coords{Lat: lat, Lng: lng}, nil
}
