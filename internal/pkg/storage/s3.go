// Package storage provides an S3-compatible object storage client for
// uploaded media. It wraps the AWS SDK v2 with static credentials and
// path-style addressing so MinIO and other self-hosted stores work.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Options configures the client.
type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string // optional CDN or custom domain
	Prefix          string // key prefix, e.g. "uploads"
}

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads public objects to one bucket.
type Client struct {
	api       PutObjectAPI
	bucket    string
	endpoint  string
	publicURL string
	prefix    string
}

// New builds a client from opts. Bucket and credentials are required.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Bucket) == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/access_key_id/secret_access_key are required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "us-east-1"
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}

	api := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		UsePathStyle: true,
	})
	return NewWithAPI(api, opts.Bucket, endpoint, opts.PublicURL, opts.Prefix), nil
}

// NewWithAPI builds a client around an existing S3 API implementation.
func NewWithAPI(api PutObjectAPI, bucket, endpoint, publicURL, prefix string) *Client {
	return &Client{
		api:       api,
		bucket:    strings.TrimSpace(bucket),
		endpoint:  strings.TrimRight(endpoint, "/"),
		publicURL: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
		prefix:    strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

// Key returns the object key used for name.
func (c *Client) Key(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + "/" + name
}

// Upload stores payload under name with a public-read ACL and returns its URL.
func (c *Client) Upload(ctx context.Context, name, contentType string, payload []byte) (string, error) {
	key := c.Key(name)
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// FileURL returns the public URL for key. Uses the configured public URL if
// set, otherwise a path-style URL on the endpoint.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}
