package storage

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appconfig "github.com/streamhive/account-service/internal/config"
)

// S3Store implements the object-store boundary against S3/MinIO/R2.
// Uploaded objects land in a public bucket; the returned URL is
// CDN_BASE_URL/<key>.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	prefix  string
	log     zerolog.Logger
}

// NewS3Store creates a store configured for MinIO or real S3.
func NewS3Store(cfg *appconfig.Config, log zerolog.Logger) (*S3Store, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.S3Endpoint,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimRight(cfg.CDNBaseURL, "/"),
		prefix:  "users",
		log:     log,
	}, nil
}

// Upload pushes a staged local file and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s%s", s.prefix, uuid.NewString(), ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.log.Debug().Str("key", key).Int64("size", info.Size()).Msg("object uploaded")
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind a previously returned URL.
// An empty URL is a no-op.
func (s *S3Store) Delete(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	key, err := s.objectKey(fileURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// objectKey recovers the bucket key from a public URL. URLs from another
// base are still accepted by falling back to the path under the prefix.
func (s *S3Store) objectKey(fileURL string) (string, error) {
	if rest, ok := strings.CutPrefix(fileURL, s.baseURL+"/"); ok {
		return rest, nil
	}

	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("unparseable asset URL %q: %w", fileURL, err)
	}
	path := strings.TrimPrefix(u.Path, "/")
	if i := strings.Index(path, s.prefix+"/"); i >= 0 {
		return path[i:], nil
	}
	return path, nil
}

// EnsureBucket creates the bucket if it does not exist (MinIO dev setups).
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	s.log.Info().Str("bucket", s.bucket).Msg("creating bucket")
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}
