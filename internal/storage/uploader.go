// Package storage uploads product images to an S3-compatible bucket and
// hands back the public URL. The product record is only written after the
// upload has finished, so a product can never reference an unfinished upload.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Uploader struct {
	client *minio.Client
	bucket string
}

func New(endpoint, accessKey, secretKey, bucket string, secure bool) (*Uploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// UploadProductImage stores the image under a fresh key and returns its
// publicly addressable URL.
func (u *Uploader) UploadProductImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := "products/" + uuid.NewString() + filepath.Ext(filename)

	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", u.client.EndpointURL(), u.bucket, key), nil
}
