package archive

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"visiflow/backend/services/ingest-service/internal/models"
)

// Config holds the lake sink settings.
type Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Timeout         time.Duration
}

// Sink archives successfully processed records into the partitioned S3
// lake layout. Archival is best effort: the telemetry store write has
// already committed by the time a record reaches the sink.
type Sink struct {
	client  *s3.Client
	bucket  string
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSink builds an S3-backed lake sink.
func NewSink(ctx context.Context, cfg Config, logger *zap.Logger) (*Sink, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "ap-south-1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	return &Sink{
		client:  s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Archive writes one Ok record's re-encoded payload under its partition
// keys. Records without partition metadata are skipped.
func (s *Sink) Archive(ctx context.Context, rec models.OutputRecord) error {
	if rec.Result != models.ResultOk || rec.Metadata == nil {
		return nil
	}

	body, err := base64.StdEncoding.DecodeString(rec.Data)
	if err != nil {
		return fmt.Errorf("archive: decode record %s: %w", rec.RecordID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := objectKey(s.prefix, rec)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("archive: put %s: %w", key, err)
	}

	s.logger.Debug("record archived", zap.String("key", key))
	return nil
}

// objectKey lays the record out hive-style so the lake can prune
// partitions on device and time.
func objectKey(prefix string, rec models.OutputRecord) string {
	pk := rec.Metadata.PartitionKeys
	return fmt.Sprintf("%sdevice_id=%s/year=%s/month=%s/day=%s/hour=%s/%s.json",
		prefix, pk.DeviceID, pk.Year, pk.Month, pk.Day, pk.Hour, rec.RecordID)
}
