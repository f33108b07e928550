package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a log entry out to several sinks, e.g. stdout and the
// rotating service log file. A failing sink does not stop the others.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w == nil {
			continue
		}
		cw.writers = append(cw.writers, w)
	}
	return cw
}

func (cw *CombinedWriter) Len() int {
	return len(cw.writers)
}

// Write reports the entry as written when at least one sink took all of it,
// so the logger keeps going while one sink is down. Errors of all failed
// sinks are returned combined.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	if len(cw.writers) == 0 {
		return len(p), nil
	}

	var err error
	delivered := false
	for _, w := range cw.writers {
		n, werr := w.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		delivered = true
	}

	if !delivered {
		return 0, err
	}
	return len(p), err
}
