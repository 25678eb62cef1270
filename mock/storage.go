package mock

import (
	"context"
	"io"

	"github.com/fleetops/fleetcheck"
)

// Compile-time interface check
var _ fleetcheck.FileStorage = (*FileStorage)(nil)

const storageBaseURL = "https://reports.example.com/"

// FileStorage is a mock implementation of fleetcheck.FileStorage. Without an
// UploadFn, uploads are kept in memory in Files.
type FileStorage struct {
	UploadFn func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	DeleteFn func(ctx context.Context, key string) error
	ExistsFn func(ctx context.Context, key string) (bool, error)

	Files map[string][]byte
}

func (s *FileStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if s.UploadFn != nil {
		return s.UploadFn(ctx, key, reader, contentType)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if s.Files == nil {
		s.Files = make(map[string][]byte)
	}
	s.Files[key] = data
	return s.GetURL(key), nil
}

func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, key)
	}
	delete(s.Files, key)
	return nil
}

func (s *FileStorage) GetURL(key string) string {
	return storageBaseURL + key
}

func (s *FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, key)
	}
	_, ok := s.Files[key]
	return ok, nil
}
