// Package blob stores attachment bytes. Keys are opaque slash separated
// paths chosen by the caller; the database keeps only the key.
package blob

import (
	"context"
	"errors"
	"io"
)

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

var (
	ErrNotFound = errors.New("blob not found")
	ErrExists   = errors.New("blob already exists")
	ErrEmptyKey = errors.New("blob key is empty")
)

type Info struct {
	Key         string
	Size        int64
	ContentType string
}

// Store is create-only: Put fails with ErrExists on an existing key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Driver() Driver
}
