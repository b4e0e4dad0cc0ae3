// Package csrfgin adapts csrf.Protector to Gin without going through net/http
// middleware, so handlers keep the gin.Context they were given.
package csrfgin

import (
	"bufio"
	"bytes"
	"net"
	"net/http"

	"github.com/JeanGrijp/go-xsrf/csrf"
	"github.com/gin-gonic/gin"
)

// Middleware enforces p on every request of the group it is attached to.
func Middleware(p *csrf.Protector) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, d, err := p.Begin(c.Writer, c.Request)
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to set XSRF cookie")
			c.Abort()
			return
		}
		// keep gin context in sync with the request carrying the token
		c.Request = r

		if d.Exempt {
			c.Next()
			return
		}

		if d.Err != nil {
			p.Reject(c.Writer, c.Request, d.Err)
			c.Abort()
			return
		}

		if !d.Renew {
			c.Next()
			return
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()
		c.Writer = bw.ResponseWriter

		if bw.committed {
			p.RenewalDropped(c.Request)
			return
		}
		_ = p.Renew(c.Writer, c.Request)
		bw.commit()
	}
}

// bufferedWriter holds the status and body written by downstream handlers
// until the middleware commits them. Flush and Hijack commit early.
type bufferedWriter struct {
	gin.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
	committed   bool
}

func (w *bufferedWriter) WriteHeader(code int) {
	if w.committed {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	if code > 0 && !w.wroteHeader {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() {
	if w.committed {
		w.ResponseWriter.WriteHeaderNow()
		return
	}
	w.wroteHeader = true
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	if w.committed {
		return w.ResponseWriter.Write(b)
	}
	w.wroteHeader = true
	return w.buf.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	if w.committed {
		return w.ResponseWriter.WriteString(s)
	}
	w.wroteHeader = true
	return w.buf.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	if !w.committed && w.status != 0 {
		return w.status
	}
	return w.ResponseWriter.Status()
}

func (w *bufferedWriter) Size() int {
	if w.committed {
		return w.ResponseWriter.Size()
	}
	if !w.wroteHeader {
		return -1
	}
	return w.buf.Len()
}

func (w *bufferedWriter) Written() bool {
	if w.committed {
		return w.ResponseWriter.Written()
	}
	return w.wroteHeader
}

func (w *bufferedWriter) Flush() {
	w.commit()
	w.ResponseWriter.Flush()
}

func (w *bufferedWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.commit()
	return w.ResponseWriter.Hijack()
}

func (w *bufferedWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if w.status != 0 {
		w.ResponseWriter.WriteHeader(w.status)
	}
	if w.wroteHeader {
		w.ResponseWriter.WriteHeaderNow()
	}
	if w.buf.Len() > 0 {
		w.ResponseWriter.Write(w.buf.Bytes())
		w.buf.Reset()
	}
}
