package middleware

import (
	"io"
	"net/http"
)

// LimitAndDrainRequest caps the request body at maxBodyBytes; tracker requests
// only carry a form or a small JSON object. After the handler is done, what is
// left of the body is drained and closed, so the connection can be reused.
func LimitAndDrainRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}

			next.ServeHTTP(w, r)

			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
