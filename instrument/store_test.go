package instrument

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/svcat/svcat/catalog"
)

// fakeStore returns canned results so the wrapper's pass-through
// behavior can be checked exactly.
type fakeStore struct {
	recs []catalog.Record
	err  error
}

func (f *fakeStore) List(ctx context.Context, filter catalog.Filter) ([]catalog.Record, error) {
	return f.recs, f.err
}

func (f *fakeStore) Get(ctx context.Context, name string) (catalog.Record, error) {
	if f.err != nil {
		return catalog.Record{}, f.err
	}
	return f.recs[0], nil
}

func (f *fakeStore) Create(ctx context.Context, rec catalog.Record) (catalog.Record, error) {
	return rec, f.err
}

func (f *fakeStore) Update(ctx context.Context, name string, upd catalog.Update) (catalog.Record, error) {
	if f.err != nil {
		return catalog.Record{}, f.err
	}
	return upd.ApplyTo(f.recs[0]), nil
}

func (f *fakeStore) Delete(ctx context.Context, name string) error {
	return f.err
}

func TestPassThrough(t *testing.T) {
	inner := &fakeStore{recs: []catalog.Record{{Name: "A", Category: "C1", Description: "D1"}}}
	s := NewStore(inner, prometheus.NewRegistry(), nil)
	ctx := context.Background()

	recs, err := s.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	require.Equal(t, inner.recs, recs)

	rec, err := s.Get(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, inner.recs[0], rec)

	created, err := s.Create(ctx, catalog.Record{Name: "B", Category: "C", Description: "D"})
	require.NoError(t, err)
	require.Equal(t, "B", created.Name)

	require.NoError(t, s.Delete(ctx, "A"))
}

func TestErrorIdentityPreserved(t *testing.T) {
	// the wrapper must return the inner error verbatim so that
	// errors.Is keeps working through it
	innerErr := fmt.Errorf("record %q: %w", "X", catalog.ErrNotFound)
	inner := &fakeStore{err: innerErr}
	s := NewStore(inner, prometheus.NewRegistry(), nil)
	ctx := context.Background()

	_, err := s.List(ctx, catalog.Filter{})
	require.Same(t, innerErr, err)

	_, err = s.Get(ctx, "X")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	err = s.Delete(ctx, "X")
	require.Same(t, innerErr, err)
}

func TestMetricsRecorded(t *testing.T) {
	inner := &fakeStore{recs: []catalog.Record{{Name: "A", Category: "C1", Description: "D1"}}}
	reg := prometheus.NewRegistry()
	s := NewStore(inner, reg, nil)
	ctx := context.Background()

	_, _ = s.List(ctx, catalog.Filter{})
	_, _ = s.Get(ctx, "A")
	_, _ = s.Get(ctx, "A")

	require.Equal(t, 1.0, testutil.ToFloat64(s.ops.WithLabelValues("list", "ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(s.ops.WithLabelValues("get", "ok")))
	require.Equal(t, 0.0, testutil.ToFloat64(s.errs.WithLabelValues("get", "not_found")))
}

func TestErrorMetricsByKind(t *testing.T) {
	inner := &fakeStore{err: fmt.Errorf("boom: %w", catalog.ErrUnavailable)}
	s := NewStore(inner, prometheus.NewRegistry(), nil)
	ctx := context.Background()

	_, _ = s.List(ctx, catalog.Filter{})
	_, _ = s.List(ctx, catalog.Filter{})

	require.Equal(t, 2.0, testutil.ToFloat64(s.ops.WithLabelValues("list", "error")))
	require.Equal(t, 2.0, testutil.ToFloat64(s.errs.WithLabelValues("list", "unavailable")))
}

func TestErrKind(t *testing.T) {
	require.Equal(t, "not_found", errKind(catalog.ErrNotFound))
	require.Equal(t, "duplicate_name", errKind(catalog.ErrDuplicateName))
	require.Equal(t, "invalid_record", errKind(catalog.ErrInvalidRecord))
	require.Equal(t, "malformed_data", errKind(catalog.ErrMalformedData))
	require.Equal(t, "unavailable", errKind(catalog.ErrUnavailable))
	require.Equal(t, "other", errKind(fmt.Errorf("something else")))

	// wrapped sentinels classify the same
	require.Equal(t, "not_found", errKind(fmt.Errorf("record %q: %w", "X", catalog.ErrNotFound)))
}
