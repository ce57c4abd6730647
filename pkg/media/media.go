// Package media stores user-uploaded images in object storage and returns their public URLs.
package media

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// MaxImageBytes caps a single uploaded image
const MaxImageBytes = 5 << 20

// Folders used for object names
const (
	FolderComplaints = "complaints"
	FolderProducts   = "products"
)

var (
	// ErrNotConfigured is returned by the disabled uploader
	ErrNotConfigured = errors.New("media storage is not configured")
	// ErrNotImage is returned for non-image content types
	ErrNotImage = errors.New("only image uploads are allowed")
	// ErrTooLarge is returned when an image exceeds MaxImageBytes
	ErrTooLarge = errors.New("image exceeds the 5MB limit")
)

// File is one upload
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores a file under folder and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, folder string, file File) (string, error)
}

// CheckImage validates the declared type and size of an upload
func CheckImage(file File) error {
	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return ErrNotImage
	}
	if file.Size > MaxImageBytes {
		return ErrTooLarge
	}
	return nil
}

func extension(file File) string {
	ext := strings.ToLower(filepath.Ext(file.Name))
	if ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(file.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// Disabled is the uploader used when no bucket is configured
type Disabled struct{}

// Upload always fails with ErrNotConfigured
func (Disabled) Upload(context.Context, string, File) (string, error) {
	return "", ErrNotConfigured
}
