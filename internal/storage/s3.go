package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

// S3Store uploads assets to an S3 bucket, keyed under the preset name. It is
// the self-hosted alternative to the Cloudinary backend.
type S3Store struct {
	Bucket   string
	uploader *s3manager.Uploader
}

func NewS3Store(region, bucket string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return &S3Store{Bucket: bucket, uploader: s3manager.NewUploader(sess)}, nil
}

func (s *S3Store) Upload(ctx context.Context, data string, preset string) (string, error) {
	raw, mime, err := DecodeDataURI(data)
	if err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	key := preset + "/" + uuid.NewString() + extFor(mime)
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(raw),
	}
	if mime != "" {
		input.ContentType = aws.String(mime)
	}
	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.Bucket, key), nil
}

func extFor(mime string) string {
	switch {
	case strings.HasSuffix(mime, "png"):
		return ".png"
	case strings.HasSuffix(mime, "jpeg"), strings.HasSuffix(mime, "jpg"):
		return ".jpg"
	default:
		return ""
	}
}
