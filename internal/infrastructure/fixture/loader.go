package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dreschagin/support-dashboard/internal/application/port"
)

// FixtureError means the fixture is missing, unreadable or not valid JSON.
// Callers treat it as "no fixture available".
type FixtureError struct {
	Location string
	Err      error
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture %s: %v", e.Location, e.Err)
}

func (e *FixtureError) Unwrap() error {
	return e.Err
}

var errNoObjectStorage = errors.New("object storage is not configured")

// ObjectReader reads one object addressed by bucket and key.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader reads JSON fixtures from local disk or from s3://bucket/key locations.
type Loader struct {
	baseDir string
	objects ObjectReader
}

var _ port.FixtureLoader = (*Loader)(nil)

type Option func(*Loader)

// WithBaseDir resolves relative paths against dir instead of the working directory.
func WithBaseDir(dir string) Option {
	return func(l *Loader) {
		l.baseDir = dir
	}
}

// WithObjectReader enables s3:// locations.
func WithObjectReader(objects ObjectReader) Option {
	return func(l *Loader) {
		l.objects = objects
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) LoadFixture(ctx context.Context, location string, dest interface{}) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return &FixtureError{Location: location, Err: errors.New("empty location")}
	}

	data, err := l.read(ctx, location)
	if err != nil {
		return &FixtureError{Location: location, Err: err}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return &FixtureError{Location: location, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if bucket, key, ok := ParseS3URL(location); ok {
		if l.objects == nil {
			return nil, errNoObjectStorage
		}
		return l.objects.ReadObject(ctx, bucket, key)
	}

	return os.ReadFile(l.resolve(location))
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if l.baseDir != "" {
		return filepath.Join(l.baseDir, path)
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, path)
	}
	return path
}

// ParseS3URL splits s3://bucket/key; ok=false for anything else.
func ParseS3URL(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
