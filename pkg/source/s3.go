package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used to fetch sources.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds settings for the S3 client.
// Empty credentials fall back to the default AWS credentials chain.
type S3Config struct {
	Region          string
	Endpoint        string // optional; enables S3-compatible stores such as MinIO
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// Environment variables read by S3ConfigFromEnv:
//
//	JSONMOCK_S3_REGION=<region> (default us-east-1)
//	JSONMOCK_S3_ENDPOINT=<url>
//	JSONMOCK_S3_PATH_STYLE=true|false
//	JSONMOCK_S3_ACCESS_KEY_ID / JSONMOCK_S3_SECRET_ACCESS_KEY / JSONMOCK_S3_SESSION_TOKEN
const (
	EnvS3Region          = "JSONMOCK_S3_REGION"
	EnvS3Endpoint        = "JSONMOCK_S3_ENDPOINT"
	EnvS3PathStyle       = "JSONMOCK_S3_PATH_STYLE"
	EnvS3AccessKeyID     = "JSONMOCK_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "JSONMOCK_S3_SECRET_ACCESS_KEY"
	EnvS3SessionToken    = "JSONMOCK_S3_SESSION_TOKEN"
)

// S3ConfigFromEnv reads S3Config from the process environment.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:          os.Getenv(EnvS3Region),
		Endpoint:        os.Getenv(EnvS3Endpoint),
		AccessKeyID:     os.Getenv(EnvS3AccessKeyID),
		SecretAccessKey: os.Getenv(EnvS3SecretAccessKey),
		SessionToken:    os.Getenv(EnvS3SessionToken),
		PathStyle:       strings.EqualFold(os.Getenv(EnvS3PathStyle), "true"),
	}
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (l *Loader) s3Client(ctx context.Context) (ObjectGetter, error) {
	l.s3Once.Do(func() {
		if l.s3 != nil {
			return
		}
		l.s3, l.s3Err = NewS3Client(ctx, l.s3Config)
	})
	return l.s3, l.s3Err
}

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidS3URL, location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidS3URL, location)
	}
	return bucket, key, nil
}

func getS3Object(ctx context.Context, client ObjectGetter, location string) ([]byte, error) {
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()

	return io.ReadAll(out.Body)
}
