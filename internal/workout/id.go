package workout

import (
	"strconv"
	"sync"
	"time"
)

const idLength = 10

// IDGenerator hands out ids made of the last 10 digits of the creation time in unix
// milliseconds. Ids are strictly increasing within one generator, so workouts created
// within the same millisecond still get distinct ids.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) Next(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := t.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return truncateID(ms)
}

func truncateID(ms int64) string {
	s := strconv.FormatInt(ms, 10)
	if len(s) > idLength {
		s = s[len(s)-idLength:]
	}
	return s
}
