package chart

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-insights/backend/config"
)

// Publisher stores a rendered chart and returns where it can be found.
type Publisher interface {
	Publish(ctx context.Context, name string, png []byte) (string, error)
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName reduces a chart name to a single safe path component.
func fileName(name string) string {
	clean := strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "._")
	if clean == "" {
		return "chart"
	}
	return clean
}

// FilePublisher writes charts into a local directory.
type FilePublisher struct {
	Dir string
}

func (p FilePublisher) Publish(_ context.Context, name string, png []byte) (string, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(p.Dir, fileName(name)+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads charts to the configured bucket and returns a presigned
// download URL.
type S3Publisher struct {
	storage *config.S3Config
	putter  objectPutter
	prefix  string
	expiry  time.Duration
}

// NewS3Publisher creates a publisher writing objects under prefix.
func NewS3Publisher(storage *config.S3Config, prefix string, expiry time.Duration) *S3Publisher {
	return &S3Publisher{
		storage: storage,
		putter:  storage.Client,
		prefix:  strings.Trim(prefix, "/"),
		expiry:  expiry,
	}
}

func (p *S3Publisher) Publish(ctx context.Context, name string, png []byte) (string, error) {
	key := fmt.Sprintf("%s-%s.png", fileName(name), uuid.New().String())
	if p.prefix != "" {
		key = p.prefix + "/" + key
	}

	_, err := p.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.storage.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("upload chart %s: %w", key, err)
	}

	url, err := p.storage.GeneratePresignedURL(ctx, key, p.expiry)
	if err != nil {
		return "", fmt.Errorf("presign chart %s: %w", key, err)
	}
	return url, nil
}
