package pkg

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		statusCode int
	}{
		{
			name:       "workout created",
			body:       `{"map":{"ready":true},"alerts":[],"workout":{"type":"running","id":"1713087000"}}`,
			statusCode: http.StatusCreated,
		},
		{
			name:       "invalid inputs",
			body:       `{"map":{"ready":true},"alerts":["Inputs needs to be positive number!"]}`,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "state",
			body:       `{"map":{"ready":false},"alerts":[]}`,
			statusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteResponseBytes(rr, ContentType.JSON, []byte(tc.body), tc.statusCode)

			assert.Equal(t, tc.statusCode, rr.Code)
			assert.Equal(t, ContentType.JSON, rr.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
			assert.JSONEq(t, tc.body, rr.Body.String())
		})
	}
}

func TestWriteResponseBytes_NoContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteResponseBytes(rr, "", nil, http.StatusNoContent)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("Cache-Control"))
	assert.Empty(t, rr.Body.String())
}

type brokenResponseWriter struct {
	header     http.Header
	statusCode int
}

func (w *brokenResponseWriter) Header() http.Header {
	return w.header
}

func (w *brokenResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func (w *brokenResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}

func TestWriteResponseBytes_ClientGone(t *testing.T) {
	w := &brokenResponseWriter{header: make(http.Header)}

	// only logged, the handler has nothing left to do
	assert.NotPanics(t, func() {
		WriteResponseBytes(w, ContentType.JSON, []byte(`{"alerts":[]}`), http.StatusCreated)
	})
	assert.Equal(t, http.StatusCreated, w.statusCode)
}

func TestWriteTextResponseOK(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteTextResponseOK(rr, "I'm OK, thanks ;)")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentType.Text, rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("Cache-Control"))
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}
