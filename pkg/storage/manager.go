package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/splatmarket/splatmarket/config"
)

var (
	mu      sync.RWMutex
	disks   = map[string]Disk{}
	defName string
)

// Connect builds the configured disks. The local disk always exists; the s3
// disk is only registered when a bucket is configured.
func Connect(ctx context.Context) error {
	local, err := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	if err != nil {
		return fmt.Errorf("storage: local disk: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	disks = map[string]Disk{"local": local}

	if bucket := config.StorageS3Bucket(); bucket != "" {
		s3disk, err := NewS3Disk(ctx, S3Config{
			Bucket:    bucket,
			Region:    config.StorageS3Region(),
			AccessKey: config.StorageS3Key(),
			SecretKey: config.StorageS3Secret(),
			Endpoint:  config.StorageS3Endpoint(),
			BaseURL:   config.StorageS3URL(),
		})
		if err != nil {
			return err
		}
		disks["s3"] = s3disk
	}

	defName = config.StorageDefault()
	if _, ok := disks[defName]; !ok {
		return fmt.Errorf("storage: default disk %q not configured", defName)
	}
	return nil
}

// Default returns the configured default disk.
func Default() Disk {
	mu.RLock()
	defer mu.RUnlock()
	return disks[defName]
}

// Use returns a disk by name.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
	return d, nil
}

// Register installs a disk under name (used by tests to inject fakes).
func Register(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()

	disks[name] = d
	if defName == "" {
		defName = name
	}
}

// RandomKey generates a random object key preserving the extension of the
// original filename, e.g. "e3b0c44298fc1c14.png".
func RandomKey(original string) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}

	ext := strings.ToLower(filepath.Ext(original))
	return hex.EncodeToString(buf) + ext
}
