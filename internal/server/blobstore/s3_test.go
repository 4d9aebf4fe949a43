package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/awsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct {
	in      *s3.GetObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.in = in
	var o s3.PresignOptions
	for _, fn := range optFns {
		fn(&o)
	}
	f.expires = o.Expires
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + aws.ToString(in.Key)}, nil
}

func TestUpload(t *testing.T) {
	api := &fakeS3{}
	u := New(api, &fakePresigner{}, "invoice-customers-exceptionz", "https://invoice-customers-exceptionz.s3.amazonaws.com")

	url, err := u.Upload(context.Background(), "invoices/u1/abc-bill.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "https://invoice-customers-exceptionz.s3.amazonaws.com/invoices/u1/abc-bill.pdf", url)
	assert.Equal(t, "invoice-customers-exceptionz", aws.ToString(api.in.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(api.in.ContentType))
	assert.Equal(t, "%PDF", api.body)
}

func TestUploadError(t *testing.T) {
	u := New(&fakeS3{err: errors.New("access denied")}, &fakePresigner{}, "b", "https://b")
	_, err := u.Upload(context.Background(), "k", "", strings.NewReader(""))
	assert.ErrorContains(t, err, "upload k: access denied")
}

func TestURLEscapesSegments(t *testing.T) {
	u := New(&fakeS3{}, &fakePresigner{}, "b", "https://b.s3.amazonaws.com/")
	assert.Equal(t, "https://b.s3.amazonaws.com/invoices/u1/x-my%20bill.pdf", u.URL("invoices/u1/x-my bill.pdf"))
}

func TestPresignGet(t *testing.T) {
	p := &fakePresigner{}
	u := New(&fakeS3{}, p, "b", "https://b")

	url, err := u.PresignGet(context.Background(), "invoices/u1/k.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/invoices/u1/k.pdf", url)
	assert.Equal(t, DefaultPresignTTL, p.expires)

	_, err = u.PresignGet(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, p.expires)

	p.err = errors.New("no creds")
	_, err = u.PresignGet(context.Background(), "k", 0)
	assert.ErrorContains(t, err, "presign k: no creds")
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"aws", Config{Bucket: "b"}, "https://b.s3.amazonaws.com"},
		{"endpoint", Config{Bucket: "b", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/b"},
		{"public", Config{Bucket: "b", Endpoint: "http://minio:9000", PublicBaseURL: "https://cdn.example"}, "https://cdn.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, baseURL(tt.cfg))
		})
	}
}

func TestOpenAppliesEndpoint(t *testing.T) {
	origClient, origPresign := newS3ClientFromConfig, newS3PresignClient
	t.Cleanup(func() {
		newS3ClientFromConfig, newS3PresignClient = origClient, origPresign
	})

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(*s3.Client) Presigner { return &fakePresigner{} }

	u, err := Open(context.Background(), Config{
		AWS:      awsx.Options{Region: "us-east-1", AccessKeyID: "a", SecretAccessKey: "b"},
		Bucket:   "b",
		Endpoint: "http://localhost:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000/b/k", u.URL("k"))
}

func TestOpenRequiresBucket(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.ErrorContains(t, err, "bucket is required")
}

func TestInvoiceKey(t *testing.T) {
	k := InvoiceKey("u1", `C:\Users\me\bill.pdf`)
	assert.True(t, strings.HasPrefix(k, "invoices/u1/"), k)
	assert.True(t, strings.HasSuffix(k, "-bill.pdf"), k)
	assert.NotEqual(t, k, InvoiceKey("u1", "bill.pdf"))

	assert.True(t, strings.HasSuffix(InvoiceKey("u1", ""), "-invoice"))
}
