package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/healthmate/healthmate-api/internal/config"
)

const uploadTimeout = 30 * time.Second

// UploadResult describes a stored object: its storage-relative key, the
// public URL clients fetch, and the identifier used for later deletion.
type UploadResult struct {
	Key string
	URL string
	ID  string
}

// ObjectStore is the remote file store the ingestion flow uploads to.
// Configured reports whether credentials are present; callers must check it
// before attempting uploads so misconfiguration fails fast with a specific
// error instead of a generic one.
type ObjectStore interface {
	Configured() bool
	Upload(ctx context.Context, filename, contentType string, data []byte) (*UploadResult, error)
	Delete(ctx context.Context, id string) error
}

type gcsStore struct {
	client *gcs.Client
	bucket string
	folder string
}

// NewGCSStore builds an ObjectStore over a GCS bucket. A missing bucket name
// yields an unconfigured store rather than an error; uploads against it are
// rejected by the coordinator's pre-flight check.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	if !cfg.Configured() {
		return &gcsStore{}, nil
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &gcsStore{
		client: client,
		bucket: cfg.Bucket,
		folder: strings.Trim(cfg.Folder, "/"),
	}, nil
}

func (s *gcsStore) Configured() bool {
	return s.client != nil && s.bucket != ""
}

func (s *gcsStore) Upload(ctx context.Context, filename, contentType string, data []byte) (*UploadResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("object store is not configured")
	}

	key := path.Join(s.folder, fmt.Sprintf("%s-%s", uuid.New().String(), sanitize(filename)))

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close object writer: %w", err)
	}

	return &UploadResult{
		Key: key,
		URL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key),
		ID:  key,
	}, nil
}

// Delete removes the object by its identifier. A missing object is not an
// error: the caller only needs the remote side to end up absent.
func (s *gcsStore) Delete(ctx context.Context, id string) error {
	if !s.Configured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(id).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func sanitize(name string) string {
	name = path.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
