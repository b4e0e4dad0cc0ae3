package csrf

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// deferredWriter holds back the status line and body written by the
// downstream handler so cookies can still be added once it returns.
// Flush and Hijack commit early.
type deferredWriter struct {
	w         http.ResponseWriter
	status    int
	buf       bytes.Buffer
	committed bool
}

func newDeferredWriter(w http.ResponseWriter) *deferredWriter {
	return &deferredWriter{w: w}
}

// ResponseWriter returns w wrapped so the optional interfaces of the
// underlying writer (Flusher, Hijacker, ReaderFrom, Pusher) are kept.
func (d *deferredWriter) ResponseWriter() http.ResponseWriter {
	return httpsnoop.Wrap(d.w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				// informational responses go straight out
				if d.committed || code < http.StatusOK {
					next(code)
					return
				}
				if d.status == 0 {
					d.status = code
				}
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				if d.committed {
					return next(b)
				}
				if d.status == 0 {
					d.status = http.StatusOK
				}
				return d.buf.Write(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				if d.committed {
					return next(src)
				}
				if d.status == 0 {
					d.status = http.StatusOK
				}
				return d.buf.ReadFrom(src)
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				d.commit()
				next()
			}
		},
		Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
			return func() (net.Conn, *bufio.ReadWriter, error) {
				d.commit()
				return next()
			}
		},
	})
}

// commit sends the held status and body. Safe to call more than once.
func (d *deferredWriter) commit() {
	if d.committed {
		return
	}
	d.committed = true
	if d.status != 0 {
		d.w.WriteHeader(d.status)
	}
	if d.buf.Len() > 0 {
		d.w.Write(d.buf.Bytes())
		d.buf.Reset()
	}
}
