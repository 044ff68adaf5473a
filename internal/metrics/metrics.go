// Package metrics exposes container and navigation counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/lifecycle"
	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
)

const namespace = "appshell"

// Metrics holds the shell's collectors.
type Metrics struct {
	Actions *prometheus.CounterVec
	Routes  *prometheus.CounterVec
	Ready   prometheus.Gauge

	mu   sync.Mutex
	last route.Route
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_dispatched_total",
			Help:      "Actions dispatched to the state container, by type.",
		}, []string{"type"}),
		Routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_changes_total",
			Help:      "Committed route changes, by presented page.",
		}, []string{"page"}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready",
			Help:      "1 once startup finished and the app can present routes.",
		}),
	}
	reg.MustRegister(m.Actions, m.Routes, m.Ready)
	return m
}

// Middleware counts every action passing through the container.
func (m *Metrics) Middleware() store.Middleware {
	return func(api store.API) func(store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action store.Action) any {
				m.Actions.WithLabelValues(store.TypeOf(action)).Inc()
				return next(action)
			}
		}
	}
}

// ObserveRender records readiness and route changes from controller
// change notifications.
func (m *Metrics) ObserveRender(rs lifecycle.RenderState) {
	if rs.Ready {
		m.Ready.Set(1)
	} else {
		m.Ready.Set(0)
	}

	m.mu.Lock()
	changed := !m.last.Equal(rs.Route)
	m.last = rs.Route
	m.mu.Unlock()
	if !changed {
		return
	}
	page := rs.Route.Kind().String()
	if ref, ok := rs.Route.ComponentRef(); ok {
		page = ref.Name
	}
	m.Routes.WithLabelValues(page).Inc()
}

// Serve exposes gatherer on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, log logrus.FieldLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
