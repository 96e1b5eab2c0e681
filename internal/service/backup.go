package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/allergyaid/backend/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	backupPrefix    = "profile-"
	backupKeyLayout = "2006-01-02T15-04-05Z"
)

var backupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "allergyaid_profile_backups_total",
		Help: "Profile backup runs by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(backupsTotal)
}

// ObjectStore is the subset of the S3 API used for backups. *s3.Client satisfies it.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// BackupService ships profile snapshots to S3
type BackupService struct {
	store  *store.ProfileStore
	client ObjectStore
	bucket string
	keep   int
	logger *zap.Logger
	now    func() time.Time
}

// Ensure BackupService implements IBackupService
var _ IBackupService = (*BackupService)(nil)

// NewBackupService creates a new BackupService instance. keep below 1 keeps one backup.
func NewBackupService(s *store.ProfileStore, client ObjectStore, bucket string, keep int, logger *zap.Logger) *BackupService {
	if keep < 1 {
		keep = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{store: s, client: client, bucket: bucket, keep: keep, logger: logger, now: time.Now}
}

// Backup uploads the current profile snapshot and returns its object key.
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	snap := s.store.Snapshot(ctx)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profile snapshot: %w", err)
	}

	key := backupPrefix + s.now().UTC().Format(backupKeyLayout) + ".json"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup %s: %w", key, err)
	}

	s.logger.Info("profile backup uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("allergens", len(snap.Allergens)),
		zap.Int("saved_foods", len(snap.SavedFoods)))
	return key, nil
}

// Rotate deletes all but the newest backups and returns how many were removed.
// Keys embed their UTC timestamp, so key order is age order. A failed delete
// is logged and the rest continue.
func (s *BackupService) Rotate(ctx context.Context) (int, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(backupPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list backups: %w", err)
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); strings.HasSuffix(key, ".json") {
				keys = append(keys, key)
			}
		}
	}

	if len(keys) <= s.keep {
		return 0, nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	deleted := 0
	for _, key := range keys[s.keep:] {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			s.logger.Warn("failed to delete old backup", zap.String("key", key), zap.Error(err))
			continue
		}
		deleted++
	}

	s.logger.Info("backups rotated", zap.Int("deleted", deleted), zap.Int("kept", s.keep))
	return deleted, nil
}

// Run uploads a backup and then rotates old ones. A rotation failure does not
// undo the upload; it is returned alongside the new key.
func (s *BackupService) Run(ctx context.Context) (string, error) {
	key, err := s.Backup(ctx)
	if err != nil {
		backupsTotal.WithLabelValues("failed").Inc()
		return "", err
	}
	backupsTotal.WithLabelValues("uploaded").Inc()

	if _, err := s.Rotate(ctx); err != nil {
		return key, err
	}
	return key, nil
}
