package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/mapty/internal/workout"
)

const DefaultKey = "workouts"

//go:generate mockgen -source=$GOFILE -destination=../tracker/store_mocks_test.go -package=tracker_test

// Store keeps the whole workout collection under a single key.
type Store interface {
	// Save overwrites the stored collection.
	Save(ctx context.Context, records []workout.Record) error
	// Load returns an empty slice when nothing was stored yet.
	Load(ctx context.Context) ([]workout.Record, error)
	Clear(ctx context.Context) error
}

func encode(records []workout.Record) ([]byte, error) {
	if records == nil {
		records = []workout.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal workouts: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]workout.Record, error) {
	if len(data) == 0 {
		return []workout.Record{}, nil
	}

	var records []workout.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal workouts: %w", err)
	}
	if records == nil {
		// stored "null"
		records = []workout.Record{}
	}
	return records, nil
}
