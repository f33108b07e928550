package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/mapty/internal/store"
	"github.com/2beens/mapty/internal/tracker"
	"github.com/2beens/mapty/internal/workout"
	testingpkg "github.com/2beens/mapty/pkg/testing"
)

var workoutTime = time.Date(2024, time.April, 14, 7, 45, 0, 0, time.UTC)

func (s *IntegrationTestSuite) do(ctx context.Context, method, path, contentType, body string) (int, []byte) {
	t := s.T()
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestTracker_WorkoutsPersisted() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	// empty body, the local client resolves to the development position
	status, body := s.do(ctx, http.MethodPost, "/map/position", "", "")
	require.Equal(t, http.StatusOK, status, string(body))

	var state tracker.StateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	assert.True(t, state.Map.Ready)
	assert.Equal(t, workout.Coords{Lat: 44.8125, Lng: 20.4612}, state.Map.Center)

	submitted := []url.Values{
		{"type": {"running"}, "distance": {"5.2"}, "duration": {"24"}, "cadence": {"178"}},
		{"type": {"cycling"}, "distance": {"27"}, "duration": {"95"}, "elevation": {"-50"}},
	}
	var ids []string
	for i, form := range submitted {
		status, body = s.do(ctx, http.MethodPost, "/map/click", "application/json",
			fmt.Sprintf(`{"lat":44.8%d,"lng":20.4%d}`, i, i))
		require.Equal(t, http.StatusOK, status, string(body))

		status, body = s.do(ctx, http.MethodPost, "/workouts", "application/x-www-form-urlencoded", form.Encode())
		require.Equal(t, http.StatusCreated, status, string(body))

		var resp tracker.SubmitResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		require.NotNil(t, resp.Workout)
		ids = append(ids, resp.Workout.ID)
	}

	// stored in postgres, in creation order
	var raw []byte
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, testStoreKey).Scan(&raw))
	var records []workout.Record
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 2)
	assert.Equal(t, ids[0], records[0].ID)
	assert.Equal(t, ids[1], records[1].ID)
	require.NotNil(t, records[1].ElevationGainM)
	assert.Equal(t, -50.0, *records[1].ElevationGainM)

	status, body = s.do(ctx, http.MethodPost, "/workouts/"+ids[0]+"/focus", "", "")
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, workout.Coords{Lat: 44.80, Lng: 20.40}, state.Map.Center)

	status, _ = s.do(ctx, http.MethodPost, "/workouts/0000000000/focus", "", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(ctx, http.MethodPost, "/reset", "", "")
	require.Equal(t, http.StatusOK, status, string(body))

	var count int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT count(*) FROM kv_store WHERE key = $1`, testStoreKey).Scan(&count))
	assert.Equal(t, 0, count)
}

func (s *IntegrationTestSuite) TestTracker_ResetRateLimited() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		status, _ := s.do(ctx, http.MethodPost, "/reset", "", "")
		statuses = append(statuses, status)
	}
	assert.Contains(t, statuses, http.StatusTooEarly)

	// give the other tests a fresh limit
	rdb := testingpkg.GetRedisClient(t, s.redisPort)
	require.NoError(t, rdb.Del(ctx, "rate:reset").Err())
}

func (s *IntegrationTestSuite) TestRedisStore() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	rdb := testingpkg.GetRedisClient(t, s.redisPort)
	redisStore := store.NewRedisStore(rdb, "workouts-redis-integration")

	records, err := redisStore.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	ids := workout.NewIDGenerator()
	w := workout.NewRunning(ids, workoutTime, workout.Coords{Lat: 1, Lng: 2}, 10, 50, 165)
	require.NoError(t, redisStore.Save(ctx, workout.Records([]workout.Workout{w})))

	records, err = redisStore.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	restored, err := workout.FromRecord(records[0])
	require.NoError(t, err)
	assert.Equal(t, w.ID, restored.ID)
	assert.Equal(t, w.Description, restored.Description)
	assert.Equal(t, 5.0, restored.Running.PaceMinPerKm)

	require.NoError(t, redisStore.Clear(ctx))
	records, err = redisStore.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
