// Package storage writes datasets to timestamped CSV files.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"plugsim/backend/services/generator/internal/dataset"
)

const (
	timestampLayout = "20060102_150405"
	maxSuffix       = 1000
)

// StorageError reports a dataset file that could not be written.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: write %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FileStore saves datasets into a folder.
type FileStore struct {
	folder string
	gzip   bool
	now    func() time.Time
	logger *zap.Logger
}

// Option customizes a FileStore.
type Option func(*FileStore)

// WithGzip compresses the CSV output.
func WithGzip(enabled bool) Option {
	return func(s *FileStore) { s.gzip = enabled }
}

// WithClock replaces the wall clock used for file names.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore returns a store writing into folder.
func NewFileStore(folder string, logger *zap.Logger, opts ...Option) *FileStore {
	if folder == "" {
		folder = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileStore{folder: folder, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes ds to {folder}/{name}_{YYYYMMDD_HHMMSS}.csv and returns the number of rows written
// and the file path. An empty dataset writes nothing and returns 0. An existing file is never
// overwritten; a numeric suffix is added instead.
func (s *FileStore) Save(ds *dataset.Dataset) (int, string, error) {
	if ds == nil || ds.Len() == 0 {
		s.logger.Warn("no data to save")
		return 0, "", nil
	}

	f, path, err := s.create(ds.Name())
	if err != nil {
		return 0, path, err
	}

	if err := s.write(f, ds); err != nil {
		f.Close()
		os.Remove(path)
		return 0, path, &StorageError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, path, &StorageError{Path: path, Err: err}
	}

	s.logger.Info("dataset saved", zap.String("path", path), zap.Int("rows", ds.Len()))
	return ds.Len(), path, nil
}

func (s *FileStore) create(name string) (*os.File, string, error) {
	ext := ".csv"
	if s.gzip {
		ext += ".gz"
	}
	base := filepath.Join(s.folder, fmt.Sprintf("%s_%s", name, s.now().Format(timestampLayout)))

	path := base + ext
	for i := 1; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) || i > maxSuffix {
			return nil, path, &StorageError{Path: path, Err: err}
		}
		path = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

func (s *FileStore) write(w io.Writer, ds *dataset.Dataset) error {
	if !s.gzip {
		return ds.WriteCSV(w)
	}
	zw := gzip.NewWriter(w)
	if err := ds.WriteCSV(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
