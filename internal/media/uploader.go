package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/barbersaas/internal/infra/objectstore"
)

type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type S3Uploader struct {
	client *s3.Client
	cfg    objectstore.Config
}

func NewS3Uploader(client *s3.Client, cfg objectstore.Config) *S3Uploader {
	return &S3Uploader{client: client, cfg: cfg}
}

// Put grava o objeto e devolve a URL pública.
func (u *S3Uploader) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.cfg.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return ObjectURL(u.cfg, key), nil
}

func ObjectURL(cfg objectstore.Config, key string) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/") + "/" + key
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/" + key
	default:
		region := cfg.Region
		if region == "" {
			region = "us-east-1"
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, region, key)
	}
}

func BarberPhotoKey(barberID string, version int64) string {
	return fmt.Sprintf("barbers/%s/photo-%d.webp", barberID, version)
}
