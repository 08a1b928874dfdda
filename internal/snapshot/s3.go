package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mvijayanand/tracing-framework/internal/zone"
)

// S3Config configures the optional archival mirror.
type S3Config struct {
	// Enabled gates the archiver; off by default.
	Enabled bool
	Bucket  string
	Region  string
	// Endpoint is an optional custom endpoint (MinIO, LocalStack).
	Endpoint     string
	UsePathStyle bool
	// Prefix is prepended to every archived object's key.
	Prefix string
}

// S3Archiver uploads Local snapshot buffers to an S3 bucket. It
// mirrors already-computed bytes; a failed upload never blocks or
// invalidates ingestion.
type S3Archiver struct {
	client *s3.Client
	cfg    S3Config
	local  *Local
}

// NewS3Archiver builds an archiver from cfg. Returns (nil, nil) when
// cfg.Enabled is false so callers can construct it unconditionally
// from configuration and skip wiring it in when disabled.
func NewS3Archiver(ctx context.Context, cfg S3Config) (*S3Archiver, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) })
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return &S3Archiver{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		cfg:    cfg,
		local:  NewLocal(),
	}, nil
}

// Archive snapshots z locally, then uploads the resulting buffer under
// "<prefix><zone-name>.wtf-trace".
func (a *S3Archiver) Archive(ctx context.Context, z *zone.Zone) error {
	buf, err := a.local.Snapshot(z)
	if err != nil {
		return err
	}

	key := a.cfg.Prefix + z.Name + ".wtf-trace"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes),
		ContentType: aws.String(buf.MimeType),
	})
	if err != nil {
		return fmt.Errorf("snapshot: archive zone %q to s3://%s/%s: %w", z.Name, a.cfg.Bucket, key, err)
	}
	return nil
}
