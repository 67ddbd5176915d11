package middleware

import (
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// statusWriter запоминает код ответа
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

// AccessLog пишет строку лога на каждый запрос
// 5xx пишутся уровнем error, 4xx - warn
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			writer := wrapWriter(w)

			next.ServeHTTP(writer, r)

			format := "HTTP %s %s status=%d duration_ms=%d request_id=%s"
			args := []interface{}{
				r.Method, r.URL.Path, writer.status, time.Since(start).Milliseconds(), RequestIDFromContext(r.Context()),
			}

			switch {
			case writer.status >= http.StatusInternalServerError:
				logger.Error(format, args...)
			case writer.status >= http.StatusBadRequest:
				logger.Warn(format, args...)
			default:
				logger.Info(format, args...)
			}
		})
	}
}
