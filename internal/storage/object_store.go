package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"immoportal/pkg/config"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

// ObjectStore holds property image binaries.
type ObjectStore interface {
	Upload(ctx context.Context, path string, r io.Reader, contentType string) error
	SignURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type OSSStore struct {
	Bucket *oss.Bucket
}

// NewObjectStore returns an OSS-backed store, or a disabled one when the
// OSS_* settings are incomplete.
func NewObjectStore(cfg config.StorageConfig) (ObjectStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" || cfg.Bucket == "" {
		return disabledStore{}, nil
	}

	client, err := oss.New(normalizeEndpoint(cfg.Endpoint), cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss init: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %q: %w", cfg.Bucket, err)
	}
	return &OSSStore{Bucket: bucket}, nil
}

func (s *OSSStore) Upload(ctx context.Context, path string, r io.Reader, contentType string) error {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	}
	return s.Bucket.PutObject(path, r, opts...)
}

func (s *OSSStore) SignURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	secs := int64(ttl / time.Second)
	if secs <= 0 {
		secs = 60
	}
	return s.Bucket.SignURL(path, oss.HTTPGet, secs)
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}

type disabledStore struct{}

func (disabledStore) Upload(context.Context, string, io.Reader, string) error {
	return ErrStorageDisabled
}

func (disabledStore) SignURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}
