package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"immoportal/internal/models/db_models"
	"immoportal/internal/models/response_models"
	"immoportal/internal/repositories"
	"immoportal/internal/storage"
	mem "immoportal/pkg/memcache"
	"immoportal/pkg/metrics"
)

const maxParallelUploads = 4

// ImageUpload is one submitted file. Open is called at most once.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type ImageServiceInterface interface {
	UploadAll(ctx context.Context, propertyID uuid.UUID, images []ImageUpload) []response_models.ImageUploadResult
	SignedURL(ctx context.Context, path string) (string, bool)
	CoverURLs(ctx context.Context, propertyIDs []uuid.UUID) map[uuid.UUID]string
}

type ImageService struct {
	store        storage.ObjectStore
	propertyRepo repositories.PropertyRepository
	urlCache     mem.TTLStore
	signedTTL    time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func NewImageService(
	store storage.ObjectStore,
	propertyRepo repositories.PropertyRepository,
	urlCache mem.TTLStore,
	signedTTL time.Duration,
	logger *zap.Logger,
) ImageServiceInterface {
	if signedTTL <= 0 {
		signedTTL = time.Hour
	}
	return &ImageService{
		store:        store,
		propertyRepo: propertyRepo,
		urlCache:     urlCache,
		signedTTL:    signedTTL,
		now:          time.Now,
		logger:       logger,
	}
}

// UploadAll stores each image and records its reference. order_index is the
// position in images, fixed before any upload starts. Every image succeeds or
// fails on its own.
func (s *ImageService) UploadAll(ctx context.Context, propertyID uuid.UUID, images []ImageUpload) []response_models.ImageUploadResult {
	results := make([]response_models.ImageUploadResult, len(images))
	stamp := s.now().UnixMilli()

	var g errgroup.Group
	g.SetLimit(maxParallelUploads)

	for i := range images {
		img := images[i]
		results[i] = response_models.ImageUploadResult{Index: i, Filename: img.Filename}

		if img.Size == 0 || img.Open == nil {
			results[i].Error = "empty file"
			continue
		}

		path := fmt.Sprintf("%s/%d_%d.%s", propertyID, stamp, i, imageExtension(img.ContentType))
		g.Go(func() error {
			if err := s.uploadOne(ctx, propertyID, path, i, img); err != nil {
				s.logger.Warn("image upload failed",
					zap.String("property_id", propertyID.String()),
					zap.Int("index", i),
					zap.String("path", path),
					zap.Error(err),
				)
				metrics.ImageUploads.WithLabelValues("failure").Inc()
				results[i].Error = err.Error()
				return nil
			}
			metrics.ImageUploads.WithLabelValues("success").Inc()
			results[i].Path = path
			results[i].Uploaded = true
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (s *ImageService) uploadOne(ctx context.Context, propertyID uuid.UUID, path string, index int, img ImageUpload) error {
	r, err := img.Open()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer r.Close()

	if err := s.store.Upload(ctx, path, r, imageContentType(img.ContentType)); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	row := &db_models.PropertyImage{
		PropertyID: propertyID,
		Path:       path,
		OrderIndex: index,
	}
	if err := s.propertyRepo.AddImage(ctx, row); err != nil {
		return fmt.Errorf("record image: %w", err)
	}
	return nil
}

// SignedURL returns a cached signed URL for path. ok is false when signing fails.
func (s *ImageService) SignedURL(ctx context.Context, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if url, ok := s.urlCache.Peek(path); ok {
		return url, true
	}

	url, err := s.store.SignURL(ctx, path, s.signedTTL)
	if err != nil || url == "" {
		s.logger.Debug("sign url failed", zap.String("path", path), zap.Error(err))
		return "", false
	}
	// Cached for half the signature lifetime so a served URL never expires early.
	s.urlCache.Set(path, url, s.signedTTL/2)
	return url, true
}

// CoverURLs signs the lowest order_index image of each property. Properties
// without images, or whose cover cannot be signed, are absent from the map.
func (s *ImageService) CoverURLs(ctx context.Context, propertyIDs []uuid.UUID) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string)
	if len(propertyIDs) == 0 {
		return out
	}

	paths, err := s.propertyRepo.CoverPaths(ctx, propertyIDs)
	if err != nil {
		s.logger.Warn("load cover images", zap.Error(err))
		return out
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(maxParallelUploads)
	for id, path := range paths {
		g.Go(func() error {
			if url, ok := s.SignedURL(ctx, path); ok {
				mu.Lock()
				out[id] = url
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func imageContentType(ct string) string {
	if ct == "" {
		return "image/jpeg"
	}
	return ct
}

func imageExtension(ct string) string {
	switch {
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "webp"):
		return "webp"
	}
	return "jpg"
}
