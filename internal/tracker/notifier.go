package tracker

import (
	"sync"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=notifier_mocks_test.go -package=tracker_test

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}

var _ Notifier = (*AlertQueue)(nil)

// AlertQueue holds alerts until the next response hands them to the client.
type AlertQueue struct {
	mu     sync.Mutex
	alerts []string
}

func NewAlertQueue() *AlertQueue {
	return &AlertQueue{}
}

func (q *AlertQueue) Alert(msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alerts = append(q.alerts, msg)
}

func (q *AlertQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	alerts := q.alerts
	q.alerts = nil
	if alerts == nil {
		return []string{}
	}
	return alerts
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
