package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a single stream out to several writers, used by
// the logging setup to hit the rotated log file and stdout at once.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{writers: writers}
}

// Write pushes p to every writer and keeps going on failures, the
// returned count is the total written across all of them.
func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}
