package s3blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// Writer implements domain.BlobWriter on top of an S3 client. Uploads go
// through the SDK's upload manager, which handles multipart transfers for
// large archive payloads transparently.
type Writer struct {
	client   *Client
	uploader *manager.Uploader
}

var _ domain.BlobWriter = (*Writer)(nil)

// NewWriter creates a blob writer over the given client.
func NewWriter(client *Client) *Writer {
	return &Writer{
		client:   client,
		uploader: manager.NewUploader(client.S3()),
	}
}

// Put uploads data to the given path in the configured bucket.
func (w *Writer) Put(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := w.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.client.Bucket()),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3blob: put %s: %w", path, err)
	}
	return nil
}
