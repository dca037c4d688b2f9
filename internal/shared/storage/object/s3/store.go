package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"ats-checker/internal/shared/util"
)

// Store archives uploaded documents in an S3 bucket.
type Store struct {
	client *awss3.Client
	bucket string
	prefix string
}

func New(ctx context.Context, region, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{
		client: awss3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *Store) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	safe, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", err
	}
	key := path.Join(s.prefix, util.HashUserKey(userID), uuid.NewString()+"-"+safe)

	// PutObject needs a seekable body for signing, so buffer small uploads.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", fmt.Errorf("read upload: %w", err)
	}
	mimeType := detectMime(safe)

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", 0, "", fmt.Errorf("put object: %w", err)
	}
	return key, int64(len(data)), mimeType, nil
}

func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}

func detectMime(fileName string) string {
	mt := mime.TypeByExtension(filepath.Ext(fileName))
	if mt == "" {
		return "application/octet-stream"
	}
	return mt
}
