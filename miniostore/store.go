package miniostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/svcat/svcat/catalog"
)

// Config configures an object store backed Store. Endpoint, Access,
// Secret, Bucket and Object are required.
type Config struct {
	Endpoint string
	Access   string
	Secret   string
	Bucket   string
	// Object is the key of the catalog document, e.g. "catalog.json".
	Object string
	Region string
	// Insecure disables TLS, for local object stores in tests/dev.
	Insecure bool
	// Seed is the default dataset the document is created from when
	// the object does not exist yet.
	Seed []catalog.Record
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Store keeps the catalog in a single object in an S3-compatible store.
type Store struct {
	mc     *minio.Client
	bucket string
	object string
	seed   []catalog.Record
	log    *slog.Logger

	// serializes read-modify-write cycles within this instance
	mu sync.Mutex
}

var _ catalog.Store = (*Store)(nil)

// New creates a Store and verifies the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Access == "" || cfg.Secret == "" ||
		cfg.Bucket == "" || cfg.Object == "" {
		return nil, errors.New("miniostore: endpoint, access, secret, bucket and object are required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Access, cfg.Secret, ""),
		Region: cfg.Region,
		Secure: !cfg.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("miniostore: %w", err)
	}
	found, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: bucket %q doesn't exist", catalog.ErrUnavailable, cfg.Bucket)
	}

	return &Store{
		mc:     mc,
		bucket: cfg.Bucket,
		object: cfg.Object,
		seed:   cfg.Seed,
		log:    log,
	}, nil
}

// isNoSuchKey reports whether err means the object doesn't exist.
func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// fetch downloads and parses the document. Returns errObjectMissing if
// the object doesn't exist yet.
func (s *Store) fetch(ctx context.Context) ([]catalog.Record, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	defer obj.Close()

	d, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errObjectMissing
		}
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	return catalog.DecodeDocument(d)
}

var errObjectMissing = errors.New("object missing")

// loadLocked fetches the document, uploading the seed dataset first if
// the object doesn't exist. Caller holds s.mu.
func (s *Store) loadLocked(ctx context.Context) ([]catalog.Record, error) {
	recs, err := s.fetch(ctx)
	if err == nil {
		return recs, nil
	}
	if !errors.Is(err, errObjectMissing) {
		return nil, err
	}
	if err := s.save(ctx, s.seed); err != nil {
		return nil, err
	}
	s.log.Info("seeded catalog object", "bucket", s.bucket, "object", s.object, "records", len(s.seed))
	return append([]catalog.Record{}, s.seed...), nil
}

// load is the read-side variant: it takes the lock only when the
// document turns out to need seeding.
func (s *Store) load(ctx context.Context) ([]catalog.Record, error) {
	recs, err := s.fetch(ctx)
	if !errors.Is(err, errObjectMissing) {
		return recs, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// save uploads the full replacement document. The upload runs to
// completion even if the caller's context is cancelled mid-flight, so
// a half-applied mutation is never left behind.
func (s *Store) save(ctx context.Context, recs []catalog.Record) error {
	d := catalog.EncodeDocument(recs)
	_, err := s.mc.PutObject(context.WithoutCancel(ctx), s.bucket, s.object,
		bytes.NewReader(d), int64(len(d)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	return nil
}

// List returns records matching filter in insertion order.
func (s *Store) List(ctx context.Context, filter catalog.Filter) ([]catalog.Record, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterRecords(recs, filter), nil
}

// Get returns the record with the given name.
func (s *Store) Get(ctx context.Context, name string) (catalog.Record, error) {
	recs, err := s.load(ctx)
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

// Create appends a record and uploads the replacement document.
func (s *Store) Create(ctx context.Context, rec catalog.Record) (catalog.Record, error) {
	if err := rec.Validate(); err != nil {
		return catalog.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocked(ctx)
	if err != nil {
		return catalog.Record{}, err
	}
	for _, r := range recs {
		if r.Name == rec.Name {
			return catalog.Record{}, fmt.Errorf("record %q: %w", rec.Name, catalog.ErrDuplicateName)
		}
	}
	if err := s.save(ctx, append(recs, rec)); err != nil {
		return catalog.Record{}, err
	}
	s.log.Info("created record", "name", rec.Name)
	return rec, nil
}

// Update merges the supplied fields into the named record and uploads
// the replacement document. The name is never changed.
func (s *Store) Update(ctx context.Context, name string, upd catalog.Update) (catalog.Record, error) {
	if err := upd.Validate(); err != nil {
		return catalog.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocked(ctx)
	if err != nil {
		return catalog.Record{}, err
	}
	for i, r := range recs {
		if r.Name == name {
			recs[i] = upd.ApplyTo(r)
			if err := s.save(ctx, recs); err != nil {
				return catalog.Record{}, err
			}
			s.log.Info("updated record", "name", name)
			return recs[i], nil
		}
	}
	return catalog.Record{}, fmt.Errorf("record %q: %w", name, catalog.ErrNotFound)
}

// Delete removes the named record and uploads the replacement document.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.Name == name {
			recs = append(recs[:i], recs[i+1:]...)
			if err := s.save(ctx, recs); err != nil {
				return err
			}
			s.log.Info("deleted record", "name", name)
			return nil
		}
	}
	return fmt.Errorf("record %q: %w", name, catalog.ErrNotFound)
}
