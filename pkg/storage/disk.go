// Package storage stores uploaded menu images on a local directory or an
// S3-compatible bucket (AWS S3, MinIO, R2).
//
//	disk, err := storage.Connect()
//	err = disk.Put(ctx, "menu/3f2a.jpg", file, "image/jpeg")
//	url := disk.URL("menu/3f2a.jpg")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/shashiranjanraj/eatn/config"
)

// Disk is a flat object store addressed by slash-separated keys.
type Disk interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// URL is the public address of key.
	URL(key string) string
}

// ErrBadKey is returned for keys that escape the disk root.
var ErrBadKey = errors.New("storage: invalid key")

// Connect builds the disk named by STORAGE_DISK.
func Connect() (Disk, error) {
	switch name := config.StorageDefault(); name {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(context.Background(), S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}

// cleanKey normalises key and rejects traversal.
func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrBadKey
	}
	c := path.Clean("/" + key)[1:]
	if c == "" || c != strings.TrimPrefix(key, "/") {
		return "", ErrBadKey
	}
	return c, nil
}
