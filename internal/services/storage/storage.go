// Package storage keeps a copy of each student's latest resume in an
// S3-compatible bucket (AWS S3 or Cloudflare R2).
//
// Each student has exactly one object, so re-uploading overwrites the
// previous resume instead of piling up versions.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotConfigured is returned when no bucket has been set up.
var ErrNotConfigured = errors.New("resume storage not configured")

// Config describes the bucket. Endpoint is only needed for non-AWS
// providers such as R2 or MinIO.
type Config struct {
	Endpoint      string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Region        string
	PublicBaseURL string
}

// Object identifies a stored resume.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store uploads resumes.
type Store struct {
	client *s3.Client // nil when storage is disabled
	cfg    Config
}

// New creates a store. Missing credentials or bucket yield a disabled store
// whose SaveResume returns ErrNotConfigured.
func New(ctx context.Context, cfg Config) (*Store, error) {
	s := &Store{cfg: cfg}
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return s, nil
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
		s.cfg.Region = "auto"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s, nil
}

// Enabled reports whether uploads will go anywhere.
func (s *Store) Enabled() bool {
	return s.client != nil
}

// SaveResume uploads the PDF under the student's key, replacing any
// earlier upload.
func (s *Store) SaveResume(ctx context.Context, email string, data []byte) (*Object, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}
	key, err := ObjectKey(email)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("📄 Stored resume %s (%d bytes)", key, len(data))
	return &Object{Key: key, URL: s.objectURL(key)}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._+-]`)

// ObjectKey returns "<username>_resume.pdf", where username is the part of
// the email before "@".
func ObjectKey(email string) (string, error) {
	username, _, found := strings.Cut(strings.TrimSpace(email), "@")
	if !found || username == "" {
		return "", fmt.Errorf("invalid email %q", email)
	}
	return unsafeKeyChars.ReplaceAllString(username, "_") + "_resume.pdf", nil
}

// objectURL builds a link to the object. A public base URL (CDN or R2
// public bucket) wins; otherwise the link points at the API endpoint.
func (s *Store) objectURL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}
