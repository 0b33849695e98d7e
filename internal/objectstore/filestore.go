// Package objectstore uploads packaged sites to S3-compatible object storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/portfolio-builder/internal/config"
)

const (
	keyPrefix      = "portfolios"
	zipContentType = "application/zip"
)

// ObjectAPI is the subset of the S3 client the store uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher stores a packaged site and returns where it can be fetched
type Publisher interface {
	Publish(ctx context.Context, runID, archiveName string, archive []byte) (string, error)
}

// FileStore stores objects in a single bucket
type FileStore struct {
	client   ObjectAPI
	bucket   string
	endpoint string
}

// NewFileStore creates a store from S3 settings. Static credentials are used
// when given, otherwise the default AWS credential chain applies.
func NewFileStore(ctx context.Context, conf config.S3Config) (*FileStore, error) {
	if conf.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if conf.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(conf.Region))
	}
	if conf.AccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	if conf.EndpointURL != "" {
		cfg.BaseEndpoint = aws.String(conf.EndpointURL)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = conf.EndpointURL != ""
	})

	return NewFileStoreWithClient(client, conf.Bucket, conf.EndpointURL), nil
}

// NewFileStoreWithClient creates a store on an existing client
func NewFileStoreWithClient(client ObjectAPI, bucket, endpoint string) *FileStore {
	return &FileStore{
		client:   client,
		bucket:   bucket,
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}
}

// ObjectKey returns the key a run's archive is stored under
func ObjectKey(runID, archiveName string) string {
	return path.Join(keyPrefix, runID, path.Base(archiveName))
}

// Upload writes the reader to key and returns the object's location
func (fs *FileStore) Upload(ctx context.Context, file io.Reader, key, contentType string) (string, error) {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fs.Location(key), nil
}

// Publish uploads a zipped site under portfolios/<run-id>/<archive>
func (fs *FileStore) Publish(ctx context.Context, runID, archiveName string, archive []byte) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}
	return fs.Upload(ctx, bytes.NewReader(archive), ObjectKey(runID, archiveName), zipContentType)
}

// Location returns the URL of key, path-style when a custom endpoint is set
func (fs *FileStore) Location(key string) string {
	if fs.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", fs.endpoint, fs.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", fs.bucket, key)
}
