package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"nostressia/internal/logger"
)

// Store fetches raw artifact bytes by location.
type Store interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FileStore reads local paths and file:// URLs.
type FileStore struct{}

func (FileStore) Fetch(_ context.Context, location string) ([]byte, error) {
	path := strings.TrimPrefix(location, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return data, nil
}

type HTTPStore struct {
	Client *http.Client
}

func (s HTTPStore) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build artifact request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download artifact: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download artifact: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GCSStore reads gs://bucket/key locations. The storage client is created on
// first use so deployments without GCS never need credentials.
type GCSStore struct {
	credentialsFile string

	once   sync.Once
	client *storage.Client
	err    error
}

func NewGCSStore(credentialsFile string) *GCSStore {
	return &GCSStore{credentialsFile: credentialsFile}
}

func (s *GCSStore) storageClient(ctx context.Context) (*storage.Client, error) {
	s.once.Do(func() {
		var opts []option.ClientOption
		if s.credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(s.credentialsFile))
		}
		opts = append(opts, option.WithScopes(storage.ScopeReadOnly))
		s.client, s.err = storage.NewClient(context.WithoutCancel(ctx), opts...)
	})
	return s.client, s.err
}

func (s *GCSStore) Fetch(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := parseGCSLocation(location)
	if err != nil {
		return nil, err
	}
	client, err := s.storageClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	r, err := client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func parseGCSLocation(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// location: %s", location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("gs:// location needs a bucket and an object key: %s", location)
	}
	return bucket, key, nil
}

// MultiStore dispatches on the location scheme.
type MultiStore struct {
	File Store
	HTTP Store
	GCS  Store
}

func (m MultiStore) Fetch(ctx context.Context, location string) ([]byte, error) {
	var s Store
	switch {
	case strings.HasPrefix(location, "gs://"):
		s = m.GCS
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		s = m.HTTP
	default:
		s = m.File
	}
	if s == nil {
		return nil, fmt.Errorf("no store configured for %s", location)
	}
	return s.Fetch(ctx, location)
}

// ByteCache is a shared byte cache, typically Redis.
type ByteCache interface {
	GetArtifact(ctx context.Context, location string) ([]byte, bool, error)
	SetArtifact(ctx context.Context, location string, data []byte, ttl time.Duration) error
}

// CachedStore puts a shared ByteCache in front of another Store so replicas
// download each artifact once. Cache failures fall through to the store.
type CachedStore struct {
	Next  Store
	Cache ByteCache
	TTL   time.Duration
	Log   *logger.Logger
}

func (s CachedStore) Fetch(ctx context.Context, location string) ([]byte, error) {
	data, ok, err := s.Cache.GetArtifact(ctx, location)
	switch {
	case err != nil:
		s.Log.Warn("artifact byte cache read failed", "location", location, "error", err)
	case ok:
		s.Log.Debug("artifact byte cache hit", "location", location)
		return data, nil
	}

	data, err = s.Next.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetArtifact(ctx, location, data, s.TTL); err != nil {
		s.Log.Warn("artifact byte cache write failed", "location", location, "error", err)
	}
	return data, nil
}
