package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/nexable/smartcookly/backend/config"
)

const scanURLExpiry = 15 * time.Minute

// ImageStore keeps uploaded photos and hands back a URL a model provider
// can fetch.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3ImageStore uploads photos to a private bucket and returns presigned GET URLs.
type S3ImageStore struct {
	s3Config *config.S3Config
	expiry   time.Duration
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config, expiry: scanURLExpiry}
}

func (s *S3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := s.s3Config.GeneratePresignedURL(ctx, key, s.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	log.Printf("[ImageStore] uploaded %d bytes to s3://%s/%s", len(data), s.s3Config.BucketName, key)
	return url, nil
}

// scanImageKey names a scan photo: scans/<user>/<random>.<ext>.
func scanImageKey(userID uuid.UUID, contentType string) string {
	return fmt.Sprintf("scans/%s/%s.%s", userID, uuid.NewString(), imageExtension(contentType))
}

func imageExtension(contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
	switch ext {
	case "jpeg", "":
		return "jpg"
	case "png", "webp", "gif", "heic":
		return ext
	}
	return "bin"
}
