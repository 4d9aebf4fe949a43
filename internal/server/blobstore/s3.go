// Package blobstore uploads documents to S3 (or any S3-compatible endpoint)
// and hands out their URLs.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/awsx"
	"github.com/google/uuid"
)

// DefaultPresignTTL is the lifetime of presigned download links.
const DefaultPresignTTL = 15 * time.Minute

// API is the subset of *s3.Client the uploader calls.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient the uploader calls.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) Presigner {
		return s3.NewPresignClient(c)
	}
)

// Config selects the bucket and, for MinIO or LocalStack, the endpoint.
type Config struct {
	AWS      awsx.Options
	Bucket   string
	Endpoint string
	// PublicBaseURL overrides the URL prefix stored with uploaded objects.
	PublicBaseURL string
}

type Uploader struct {
	api       API
	presigner Presigner
	bucket    string
	baseURL   string
}

// New binds an uploader to an existing client. baseURL is the prefix object
// keys are appended to when building public URLs.
func New(api API, presigner Presigner, bucket, baseURL string) *Uploader {
	return &Uploader{api: api, presigner: presigner, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Open builds the S3 client from cfg.
func Open(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blobstore: bucket is required")
	}
	awsCfg, err := awsx.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, newS3PresignClient(client), cfg.Bucket, baseURL(cfg)), nil
}

func baseURL(cfg Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
}

// URL is the public address of key.
func (u *Uploader) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return u.baseURL + "/" + strings.Join(parts, "/")
}

// Upload stores body under key and returns the object's URL.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.URL(key), nil
}

// PresignGet returns a time-limited download link for key.
func (u *Uploader) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	req, err := u.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// InvoiceKey is the object key for an invoice uploaded for userID.
// The random segment keeps re-uploads of the same file name apart.
func InvoiceKey(userID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "invoice"
	}
	return fmt.Sprintf("invoices/%s/%s-%s", userID, uuid.NewString(), name)
}
