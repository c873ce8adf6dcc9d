package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupConfig points the optional S3-compatible backup at a bucket. Upload
// is skipped entirely when Bucket is empty -- backup is strictly additive
// to the sqlite store, never required for it to function.
type BackupConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Backup uploads a snapshot of the sqlite database file to an S3-compatible
// bucket (Cloudflare R2, AWS S3, or any compatible target) on each Upload
// call; RotateOldBackups keeps only the newest archives. Backup does not
// schedule uploads itself.
type Backup struct {
	client *s3.Client
	bucket string
}

// NewBackup builds an S3 client from cfg and returns nil, nil if cfg.Bucket
// is empty -- callers should treat a nil *Backup as "backup disabled".
func NewBackup(ctx context.Context, cfg BackupConfig) (*Backup, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: cfg.AccessKey, SecretAccessKey: cfg.SecretKey}, nil
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Backup{client: client, bucket: cfg.Bucket}, nil
}

// Upload pushes the sqlite file at dbPath to the bucket as
// "bourseiq-<timestamp>.db".
func (b *Backup) Upload(ctx context.Context, dbPath string) error {
	file, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("store: open database for backup: %w", err)
	}
	defer file.Close()

	key := fmt.Sprintf("bourseiq-%s.db", time.Now().UTC().Format("2006-01-02-150405"))
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("store: upload backup %q: %w", key, err)
	}
	return nil
}

// RotateOldBackups deletes backups beyond the newest keep entries.
func (b *Backup) RotateOldBackups(ctx context.Context, keep int) error {
	list, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String("bourseiq-"),
	})
	if err != nil {
		return fmt.Errorf("store: list backups: %w", err)
	}

	type object struct {
		key       string
		timestamp time.Time
	}
	var objects []object
	for _, o := range list.Contents {
		if o.Key == nil {
			continue
		}
		ts := strings.TrimSuffix(strings.TrimPrefix(*o.Key, "bourseiq-"), ".db")
		parsed, err := time.Parse("2006-01-02-150405", ts)
		if err != nil {
			continue
		}
		objects = append(objects, object{key: *o.Key, timestamp: parsed})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].timestamp.After(objects[j].timestamp) })

	for i := keep; i < len(objects); i++ {
		if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(objects[i].key),
		}); err != nil {
			return fmt.Errorf("store: delete old backup %q: %w", objects[i].key, err)
		}
	}
	return nil
}
