package uploads

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the S3 presigner.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string
	URLTTL          time.Duration
}

// S3Presigner issues presigned PUT URLs against an S3 (or compatible) bucket.
type S3Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
}

// NewS3Presigner builds the presigner. Empty credentials fall back to the
// default AWS credential chain.
func NewS3Presigner(ctx context.Context, cfg S3Config) (*S3Presigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("uploads: s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("uploads: load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Presigner{
		client: s3.NewPresignClient(s3.NewFromConfig(awsCfg, s3Opts...)),
		bucket: cfg.Bucket,
		ttl:    ttl,
	}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, objectKey, contentType string) (*PresignedPut, error) {
	request, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}
	return &PresignedPut{
		URL:       request.URL,
		Method:    request.Method,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(p.ttl),
	}, nil
}

var _ Presigner = (*S3Presigner)(nil)

// MemoryPresigner fabricates deterministic URLs for tests and local runs.
type MemoryPresigner struct {
	BaseURL string
	TTL     time.Duration
}

// NewMemoryPresigner creates a presigner serving URLs under baseURL.
func NewMemoryPresigner(baseURL string) *MemoryPresigner {
	return &MemoryPresigner{BaseURL: baseURL, TTL: 15 * time.Minute}
}

func (p *MemoryPresigner) PresignPut(_ context.Context, objectKey, _ string) (*PresignedPut, error) {
	return &PresignedPut{
		URL:       p.BaseURL + "/" + objectKey,
		Method:    http.MethodPut,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(p.TTL),
	}, nil
}

var _ Presigner = (*MemoryPresigner)(nil)
