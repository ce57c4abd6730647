package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"waste-service/prometheus"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCSUploader writes images to a Google Cloud Storage bucket
type GCSUploader struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
	newName func() string
}

// NewGCSUploader creates a storage client for bucket. Without a credentials
// file the application default credentials are used.
func NewGCSUploader(ctx context.Context, bucket, credentialsFile string, timeout time.Duration) (*GCSUploader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSUploader{
		client:  client,
		bucket:  bucket,
		timeout: timeout,
		newName: func() string { return uuid.New().String() },
	}, nil
}

// Upload streams file into <folder>/<uuid><ext> and returns the public URL
func (u *GCSUploader) Upload(ctx context.Context, folder string, file File) (url string, err error) {
	done := prometheus.TrackUpload()
	defer func() { done(err) }()

	if err := CheckImage(file); err != nil {
		return "", err
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}
	// Cancelling the writer's context aborts the object instead of committing it
	ctx, abort := context.WithCancel(ctx)
	defer abort()

	objectName := fmt.Sprintf("%s/%s%s", folder, u.newName(), extension(file))
	writer := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = file.ContentType
	writer.CacheControl = "public, max-age=31536000"

	n, err := io.Copy(writer, io.LimitReader(file.Body, MaxImageBytes+1))
	if err != nil {
		abort()
		return "", fmt.Errorf("failed to write GCS object %s: %w", objectName, err)
	}
	if n > MaxImageBytes {
		abort()
		return "", ErrTooLarge
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName), nil
}

// Close releases the storage client
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
