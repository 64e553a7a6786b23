package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/svcat/svcat/atomicfile"
	"github.com/svcat/svcat/catalog"
)

// Config configures a local file backed Store.
type Config struct {
	// Path of the catalog document file.
	Path string
	// Seed is the default dataset the document is created from when
	// the file does not exist yet.
	Seed []catalog.Record
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Store keeps the catalog in a JSON file at a fixed path.
type Store struct {
	path string
	seed []catalog.Record
	log  *slog.Logger

	// serializes mutations and seeding; reads don't take it, the
	// atomic file replace keeps them consistent
	mu sync.Mutex
}

var _ catalog.Store = (*Store)(nil)

// New creates a Store for the document at cfg.Path. The file is not
// touched until the first operation.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("localstore: path is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		path: cfg.Path,
		seed: cfg.Seed,
		log:  log,
	}, nil
}

// loadLocked reads and parses the document, materializing it from the
// seed dataset if absent. Absence is the only locally recovered
// condition; any other failure propagates. Caller holds s.mu.
func (s *Store) loadLocked() ([]catalog.Record, error) {
	d, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.save(s.seed); err != nil {
			return nil, err
		}
		s.log.Info("seeded catalog document", "path", s.path, "records", len(s.seed))
		return append([]catalog.Record{}, s.seed...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	return catalog.DecodeDocument(d)
}

// load is the read-side variant: it takes the lock only when the
// document turns out to need seeding.
func (s *Store) load() ([]catalog.Record, error) {
	d, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.loadLocked()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	return catalog.DecodeDocument(d)
}

// save persists the whole document atomically. Callers mutating the
// document must hold s.mu.
func (s *Store) save(recs []catalog.Record) error {
	if err := atomicfile.WriteFile(s.path, catalog.EncodeDocument(recs)); err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	return nil
}

// List returns records matching filter in insertion order.
func (s *Store) List(ctx context.Context, filter catalog.Filter) ([]catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := s.load()
	if err != nil {
		return nil, err
	}
	return catalog.FilterRecords(recs, filter), nil
}

// Get returns the record with the given name.
func (s *Store) Get(ctx context.Context, name string) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, err
	}
	recs, err := s.load()
	if err != nil {
		return catalog.Record{}, err
	}
	for _, r := range recs {
		if r.Name == name {
			return r, nil
		}
	}
	return catalog.Record{}, fmt.Errorf("record %q: %w", name, catalog.ErrNotFound)
}

// Create appends a record and persists the document.
func (s *Store) Create(ctx context.Context, rec catalog.Record) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, err
	}
	if err := rec.Validate(); err != nil {
		return catalog.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocked()
	if err != nil {
		return catalog.Record{}, err
	}
	for _, r := range recs {
		if r.Name == rec.Name {
			return catalog.Record{}, fmt.Errorf("record %q: %w", rec.Name, catalog.ErrDuplicateName)
		}
	}
	if err := s.save(append(recs, rec)); err != nil {
		return catalog.Record{}, err
	}
	s.log.Info("created record", "name", rec.Name)
	return rec, nil
}

// Update merges the supplied fields into the named record and persists
// the document. The name is never changed.
func (s *Store) Update(ctx context.Context, name string, upd catalog.Update) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, err
	}
	if err := upd.Validate(); err != nil {
		return catalog.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocked()
	if err != nil {
		return catalog.Record{}, err
	}
	for i, r := range recs {
		if r.Name == name {
			recs[i] = upd.ApplyTo(r)
			if err := s.save(recs); err != nil {
				return catalog.Record{}, err
			}
			s.log.Info("updated record", "name", name)
			return recs[i], nil
		}
	}
	return catalog.Record{}, fmt.Errorf("record %q: %w", name, catalog.ErrNotFound)
}

// Delete removes the named record and persists the document.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocked()
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.Name == name {
			recs = append(recs[:i], recs[i+1:]...)
			if err := s.save(recs); err != nil {
				return err
			}
			s.log.Info("deleted record", "name", name)
			return nil
		}
	}
	return fmt.Errorf("record %q: %w", name, catalog.ErrNotFound)
}
