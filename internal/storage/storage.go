package storage

import (
	"context"
	"io"
	"path"
	"time"
)

// Package storage contains object storage abstractions for archiving raw uploads in S3-compatible stores.
// Implementations stream request bodies and never touch local disk.

// ArchivePrefix is the key prefix under which raw upload files are archived.
const ArchivePrefix = "uploads"

// ArchiveKey returns the object key of an upload's raw file.
func ArchiveKey(uploadFileID, fileType string) string {
	return path.Join(ArchivePrefix, uploadFileID+fileType)
}

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
