package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

const DefaultS3Key = "snapshots/barbersaas-db.json"

// S3Backend keeps a copy of the snapshot as a single object. Used as a mirror
// of the primary backend.
type S3Backend struct {
	client *s3.Client
	bucket string
	key    string
}

func NewS3Backend(client *s3.Client, bucket, key string) *S3Backend {
	if key == "" {
		key = DefaultS3Key
	}
	return &S3Backend{client: client, bucket: bucket, key: key}
}

func (b *S3Backend) Name() string { return "s3" }

func (b *S3Backend) Load(ctx context.Context) (*models.Snapshot, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return models.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("s3 get %s: %w", b.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", b.key, err)
	}
	return Decode(data)
}

func (b *S3Backend) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", b.key, err)
	}
	return nil
}
