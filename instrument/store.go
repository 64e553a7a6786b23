package instrument

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/svcat/svcat/catalog"
	"github.com/svcat/svcat/oplog"
)

// Store wraps a catalog.Store with Prometheus metrics and optional
// event logging. It implements catalog.Store itself.
type Store struct {
	inner  catalog.Store
	events *oplog.Log

	ops      *prometheus.CounterVec
	errs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	listSize prometheus.Histogram
}

var _ catalog.Store = (*Store)(nil)

// NewStore wraps inner, registering metrics on reg. events may be nil
// to disable event logging.
func NewStore(inner catalog.Store, reg prometheus.Registerer, events *oplog.Log) *Store {
	s := &Store{
		inner:  inner,
		events: events,
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "svcat",
				Subsystem: "storage",
				Name:      "operations_total",
				Help:      "Total number of storage operations",
			},
			[]string{"operation", "status"},
		),
		errs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "svcat",
				Subsystem: "storage",
				Name:      "errors_total",
				Help:      "Total number of storage operation errors by kind",
			},
			[]string{"operation", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "svcat",
				Subsystem: "storage",
				Name:      "operation_duration_seconds",
				Help:      "Storage operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		listSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "svcat",
				Subsystem: "storage",
				Name:      "list_result_size",
				Help:      "Number of records returned by List",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(s.ops, s.errs, s.duration, s.listSize)
	}
	return s
}

// errKind classifies an error for the errors_total label.
func errKind(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.Is(err, catalog.ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, catalog.ErrInvalidRecord):
		return "invalid_record"
	case errors.Is(err, catalog.ErrMalformedData):
		return "malformed_data"
	case errors.Is(err, catalog.ErrUnavailable):
		return "unavailable"
	}
	return "other"
}

// observe records one finished call. extra are additional event
// attributes, alternating key, value.
func (s *Store) observe(op string, start time.Time, err error, extra ...any) {
	dur := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
		s.errs.WithLabelValues(op, errKind(err)).Inc()
	}
	s.ops.WithLabelValues(op, status).Inc()
	s.duration.WithLabelValues(op).Observe(dur.Seconds())

	vals := append([]any{"status", status, "duration_ms", dur.Milliseconds()}, extra...)
	if err != nil {
		vals = append(vals, "error", errKind(err))
	}
	_ = s.events.Event(op, vals...)
}

func (s *Store) List(ctx context.Context, filter catalog.Filter) ([]catalog.Record, error) {
	start := time.Now()
	recs, err := s.inner.List(ctx, filter)
	if err == nil {
		s.listSize.Observe(float64(len(recs)))
	}
	s.observe("list", start, err, "count", len(recs))
	return recs, err
}

func (s *Store) Get(ctx context.Context, name string) (catalog.Record, error) {
	start := time.Now()
	rec, err := s.inner.Get(ctx, name)
	s.observe("get", start, err, "name", name)
	return rec, err
}

func (s *Store) Create(ctx context.Context, rec catalog.Record) (catalog.Record, error) {
	start := time.Now()
	created, err := s.inner.Create(ctx, rec)
	s.observe("create", start, err, "name", rec.Name)
	return created, err
}

func (s *Store) Update(ctx context.Context, name string, upd catalog.Update) (catalog.Record, error) {
	start := time.Now()
	rec, err := s.inner.Update(ctx, name, upd)
	s.observe("update", start, err, "name", name)
	return rec, err
}

func (s *Store) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, name)
	s.observe("delete", start, err, "name", name)
	return err
}
