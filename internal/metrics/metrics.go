package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexnote", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "path", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nexnote", Name: "handler_errors_total", Help: "Unexpected handler errors",
	})
	NoteUploads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nexnote", Name: "note_uploads_total", Help: "Uploaded notes",
	})
	NoteDownloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nexnote", Name: "note_downloads_total", Help: "Served note downloads",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal, HandlerErrors, NoteUploads, NoteDownloads)
}

func Handler() http.Handler { return promhttp.Handler() }
