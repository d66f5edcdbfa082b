package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Options struct {
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	PresignTTL time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Storage struct {
	client     objectPutter
	presign    func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	bucket     string
	region     string
	presignTTL time.Duration
	now        func() time.Time
}

// NewS3Storage creates an S3-backed FileStorage. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, opts S3Options) (FileStorage, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not configured")
	}
	if opts.Region == "" {
		opts.Region = "us-east-2"
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	presignClient := s3.NewPresignClient(client)

	return &s3Storage{
		client: client,
		presign: func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
			req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket:     opts.Bucket,
		region:     opts.Region,
		presignTTL: opts.PresignTTL,
		now:        time.Now,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, r io.Reader, fileName, contentType string) (*StoredFile, error) {
	key := ObjectKey(fileName, s.now())

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}

	fileURL, err := s.presign(ctx, s.bucket, key, s.presignTTL)
	if err != nil || fileURL == "" {
		log.Printf("presign failed for %s, falling back to public url: %v", key, err)
		fileURL = PublicURL(s.bucket, s.region, key)
	}

	return &StoredFile{Bucket: s.bucket, Key: key, URL: fileURL}, nil
}

func (s *s3Storage) Delete(ctx context.Context, fileURL string) error {
	key := KeyFromURL(fileURL)
	if key == "" {
		return fmt.Errorf("could not extract object key from URL: %s", fileURL)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from s3: %w", key, err)
	}
	return nil
}

// PublicURL is the unsigned virtual-hosted address of an object.
func PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// KeyFromURL extracts the object key from a presigned or public S3 URL.
func KeyFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil || !strings.HasSuffix(u.Host, ".amazonaws.com") {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
