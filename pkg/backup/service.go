package backup

import (
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/realtyaura/aura/pkg/logger"
)

const (
	filePrefix = "aura-backup-"
	fileSuffix = ".db.gz"
	keyPrefix  = "backups/"
)

// ObjectStore is the subset of the S3 API used for remote copies
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds backup configuration
type Config struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Bucket           string
	LocalBackupDir     string
	RetentionDays      int // Number of days to keep backups
}

// Service snapshots the SQLite database
type Service struct {
	db            *sql.DB
	objects       ObjectStore
	bucket        string
	localDir      string
	retentionDays int
	logger        logger.Logger
	now           func() time.Time
}

// NewService creates a backup service. An S3 client is built only when a
// bucket is configured.
func NewService(ctx context.Context, db *sql.DB, cfg Config, log logger.Logger) (*Service, error) {
	if cfg.LocalBackupDir == "" {
		cfg.LocalBackupDir = "backups"
	}
	if err := os.MkdirAll(cfg.LocalBackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	s := &Service{
		db:            db,
		bucket:        cfg.S3Bucket,
		localDir:      cfg.LocalBackupDir,
		retentionDays: cfg.RetentionDays,
		logger:        log,
		now:           time.Now,
	}
	if cfg.S3Bucket == "" {
		return s, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	s.objects = s3.NewFromConfig(awsCfg)
	return s, nil
}

// WithObjectStore replaces the S3 client
func (s *Service) WithObjectStore(o ObjectStore, bucket string) *Service {
	s.objects = o
	s.bucket = bucket
	return s
}

// WithClock overrides the clock used for file names and retention
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BackupResult contains backup operation results
type BackupResult struct {
	Filename     string        `json:"filename"`
	Path         string        `json:"path"`
	FileSize     int64         `json:"file_size"`
	S3Key        string        `json:"s3_key,omitempty"`
	Duration     time.Duration `json:"duration"`
	UploadedToS3 bool          `json:"uploaded_to_s3"`
	Pruned       int           `json:"pruned"`
}

// CreateBackup writes a gzipped snapshot to the local directory, uploads it
// when a bucket is configured and prunes expired copies.
func (s *Service) CreateBackup(ctx context.Context) (*BackupResult, error) {
	start := time.Now()
	filename := filePrefix + s.now().UTC().Format("20060102-150405") + fileSuffix
	localPath := filepath.Join(s.localDir, filename)

	s.logger.Info("starting database backup", "file", filename)
	size, err := s.snapshot(ctx, localPath)
	if err != nil {
		return nil, err
	}

	result := &BackupResult{
		Filename: filename,
		Path:     localPath,
		FileSize: size,
	}

	if s.objects != nil && s.bucket != "" {
		result.S3Key = keyPrefix + filename
		if err := s.upload(ctx, localPath, result.S3Key); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("backup created locally but S3 upload failed: %w", err)
		}
		result.UploadedToS3 = true
		s.logger.Info("backup uploaded to S3", "bucket", s.bucket, "key", result.S3Key)

		if err := s.cleanupRemote(ctx); err != nil {
			s.logger.Warn("failed to clean up remote backups", "error", err)
		}
	}

	pruned, err := s.cleanupLocal()
	if err != nil {
		s.logger.Warn("failed to clean up local backups", "error", err)
	}
	result.Pruned = pruned
	result.Duration = time.Since(start)

	s.logger.Info("backup completed", "file", filename, "size", result.FileSize, "duration", result.Duration.String())
	return result, nil
}

// snapshot copies the live database with VACUUM INTO and gzips the copy
func (s *Service) snapshot(ctx context.Context, dest string) (int64, error) {
	raw := strings.TrimSuffix(dest, ".gz") + ".tmp"
	os.Remove(raw)
	defer os.Remove(raw)

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", raw); err != nil {
		return 0, fmt.Errorf("snapshot failed: %w", err)
	}

	in, err := os.Open(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create backup file: %w", err)
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		out.Close()
		os.Remove(dest)
		return 0, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		out.Close()
		os.Remove(dest)
		return 0, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to close backup file: %w", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to stat backup file: %w", err)
	}
	return info.Size(), nil
}

func (s *Service) upload(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         file,
		ContentType:  aws.String("application/gzip"),
		StorageClass: types.StorageClassStandardIa,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *Service) cutoff() (time.Time, bool) {
	if s.retentionDays <= 0 {
		return time.Time{}, false
	}
	return s.now().UTC().AddDate(0, 0, -s.retentionDays), true
}

func (s *Service) cleanupRemote(ctx context.Context) error {
	cutoff, ok := s.cutoff()
	if !ok {
		return nil
	}

	result, err := s.objects.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(keyPrefix),
	})
	if err != nil {
		return fmt.Errorf("failed to list S3 objects: %w", err)
	}

	var deleted int
	for _, obj := range result.Contents {
		if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
			continue
		}
		if _, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    obj.Key,
		}); err != nil {
			s.logger.Warn("failed to delete old backup", "key", aws.ToString(obj.Key), "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("cleaned up remote backups", "deleted", deleted, "retention_days", s.retentionDays)
	}
	return nil
}

func (s *Service) cleanupLocal() (int, error) {
	cutoff, ok := s.cutoff()
	if !ok {
		return 0, nil
	}

	backups, err := s.ListBackups()
	if err != nil {
		return 0, err
	}

	var deleted int
	var errs []error
	for _, b := range backups {
		if !b.LastModified.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.localDir, b.Filename)); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}

// BackupInfo describes one local backup file
type BackupInfo struct {
	Filename     string    `json:"filename"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ListBackups lists local backups, newest first
func (s *Service) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.localDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []BackupInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{Filename: name, Size: info.Size(), LastModified: info.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename > out[j].Filename })
	return out, nil
}

// Restore decompresses a local backup into dest, which must not exist
func (s *Service) Restore(filename, dest string) error {
	if filepath.Base(filename) != filename {
		return fmt.Errorf("invalid backup name: %s", filename)
	}
	in, err := os.Open(filepath.Join(s.localDir, filename))
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create restore target: %w", err)
	}
	if _, err := io.Copy(out, gz); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	s.logger.Info("database restored", "from", filename, "to", dest)
	return out.Close()
}
