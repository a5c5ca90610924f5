package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStorage is the fixed contract image persistence is delegated to.
type ImageStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// S3ImageStorage stores images in an S3 bucket with public-read objects.
type S3ImageStorage struct {
	client *s3.Client
	bucket string
}

func NewS3ImageStorage(client *s3.Client, bucket string) *S3ImageStorage {
	return &S3ImageStorage{client: client, bucket: bucket}
}

func (s *S3ImageStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// ImageService turns inline base64 image payloads into stored object URLs.
type ImageService struct {
	storage ImageStorage
}

func NewImageService(storage ImageStorage) *ImageService {
	return &ImageService{storage: storage}
}

// StoreBase64 handles "data:image/<ext>;base64,<payload>" strings. Plain
// URLs pass through untouched so updates can resend an existing image
// reference.
func (s *ImageService) StoreBase64(ctx context.Context, data string) (string, error) {
	if data == "" {
		return "", nil
	}
	if !strings.HasPrefix(data, "data:image/") {
		return data, nil
	}

	meta, payload, found := strings.Cut(data, ";base64,")
	if !found {
		return "", NewValidationError("malformed image payload")
	}
	ext := strings.TrimPrefix(meta, "data:image/")

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", NewValidationError("image payload is not valid base64")
	}

	if s.storage == nil {
		return "", fmt.Errorf("image storage is not configured")
	}
	key := "recipes/" + uuid.NewString() + "." + ext
	return s.storage.Upload(ctx, key, "image/"+ext, raw)
}
