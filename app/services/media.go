package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/splatmarket/splatmarket/pkg/logger"
	"github.com/splatmarket/splatmarket/pkg/metrics"
	"github.com/splatmarket/splatmarket/pkg/storage"
)

// Media kinds, used for metrics labels and to decide zip wrapping.
const (
	KindImage = "image"
	KindVideo = "video"
	KindSplat = "splat"
)

type MediaService struct {
	disk storage.Disk
}

func NewMediaService(disk storage.Disk) *MediaService {
	return &MediaService{disk: disk}
}

// Store uploads one media file and returns its public URL. Images and
// splats go up raw under a random key that keeps the original extension.
// Videos are wrapped in a zip archive whose single entry is named after the
// original file, and the object key gets a .zip extension.
//
// Storage failures come back as ErrUnavailable; the underlying error is
// logged only.
func (s *MediaService) Store(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	start := time.Now()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("media: read upload: %w", err)
	}

	var key string
	if kind == KindVideo {
		data, err = zipWrap(filename, data)
		if err != nil {
			return "", fmt.Errorf("media: zip video: %w", err)
		}
		key = zipKey(filename)
	} else {
		key = storage.RandomKey(filename)
	}

	n, err := s.disk.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		logger.Error(ctx, "media upload failed", "kind", kind, "key", key, "error", err)
		return "", ErrUnavailable
	}

	metrics.ObserveUpload(kind, int(n), time.Since(start))
	return s.disk.URL(key), nil
}

// Fetch opens the blob behind a previously stored URL.
func (s *MediaService) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	key := KeyFromURL(url)
	rc, err := s.disk.Get(ctx, key)
	if err != nil {
		logger.Error(ctx, "media fetch failed", "key", key, "error", err)
		return nil, ErrUnavailable
	}
	return rc, nil
}

// zipWrap compresses data into an archive with one entry named after the
// original filename.
func zipWrap(filename string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entry, err := zw.Create(filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := entry.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// zipKey builds a random object key with a .zip extension.
func zipKey(filename string) string {
	key := storage.RandomKey(filename)
	if ext := filepath.Ext(key); ext != "" {
		key = strings.TrimSuffix(key, ext)
	}
	return key + ".zip"
}

// KeyFromURL strips the base URL from a stored media URL, leaving the
// object key.
func KeyFromURL(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}

// Stem returns the filename stem used to identify a render job: the last
// path segment with every extension removed.
func Stem(url string) string {
	name := KeyFromURL(url)
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
