package backup

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/testdata"
)

type fakeObjects struct {
	puts    map[string][]byte
	listed  []types.Object
	deleted []string
	putErr  error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{Contents: f.listed}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newService(t *testing.T, retention int) (*Service, string) {
	t.Helper()
	_, client := testdata.SeededStore(t)
	dir := t.TempDir()
	svc, err := NewService(context.Background(), client.DB, Config{LocalBackupDir: dir, RetentionDays: retention}, logger.NewNop())
	require.NoError(t, err)
	return svc.WithClock(testdata.Clock), dir
}

func TestCreateBackup(t *testing.T) {
	t.Run("Success - local snapshot restores", func(t *testing.T) {
		svc, dir := newService(t, 7)

		result, err := svc.CreateBackup(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "aura-backup-20250615-120000.db.gz", result.Filename)
		assert.Positive(t, result.FileSize)
		assert.False(t, result.UploadedToS3)
		assert.Empty(t, result.S3Key)

		_, err = os.Stat(filepath.Join(dir, "aura-backup-20250615-120000.db.tmp"))
		assert.True(t, os.IsNotExist(err))

		restored := filepath.Join(t.TempDir(), "restored.db")
		require.NoError(t, svc.Restore(result.Filename, restored))

		db, err := sql.Open("sqlite3", restored)
		require.NoError(t, err)
		defer db.Close()
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM Contacts").Scan(&n))
		assert.Equal(t, 5, n)
	})

	t.Run("Success - uploads and prunes remote copies", func(t *testing.T) {
		svc, _ := newService(t, 7)
		old := testdata.Now.AddDate(0, 0, -10)
		recent := testdata.Now.AddDate(0, 0, -2)
		objects := &fakeObjects{listed: []types.Object{
			{Key: aws.String("backups/old.db.gz"), LastModified: &old},
			{Key: aws.String("backups/recent.db.gz"), LastModified: &recent},
		}}
		svc.WithObjectStore(objects, "aura-backups")

		result, err := svc.CreateBackup(context.Background())
		require.NoError(t, err)
		assert.True(t, result.UploadedToS3)
		assert.Equal(t, "backups/"+result.Filename, result.S3Key)
		assert.Contains(t, objects.puts, result.S3Key)
		assert.Equal(t, []string{"backups/old.db.gz"}, objects.deleted)
	})

	t.Run("Failure - upload error keeps local copy", func(t *testing.T) {
		svc, dir := newService(t, 7)
		svc.WithObjectStore(&fakeObjects{putErr: errors.New("access denied")}, "aura-backups")

		result, err := svc.CreateBackup(context.Background())
		require.Error(t, err)
		require.NotNil(t, result)
		assert.FileExists(t, filepath.Join(dir, result.Filename))
	})
}

func TestLocalRetention(t *testing.T) {
	svc, dir := newService(t, 7)

	stale := filepath.Join(dir, "aura-backup-20250601-120000.db.gz")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	oldTime := testdata.Now.AddDate(0, 0, -14)
	require.NoError(t, os.Chtimes(stale, oldTime, oldTime))

	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(unrelated, oldTime, oldTime))

	// the fresh backup's mtime is the real wall clock, which is after the cutoff
	result, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pruned)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, unrelated)

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, result.Filename, backups[0].Filename)
}

func TestRestoreRejectsPaths(t *testing.T) {
	svc, _ := newService(t, 0)
	assert.Error(t, svc.Restore("../secret.db.gz", filepath.Join(t.TempDir(), "x.db")))
	assert.Error(t, svc.Restore("missing.db.gz", filepath.Join(t.TempDir(), "x.db")))
}

func TestRetentionDisabled(t *testing.T) {
	svc, _ := newService(t, 0)
	_, ok := svc.cutoff()
	assert.False(t, ok)

	pruned, err := svc.cleanupLocal()
	require.NoError(t, err)
	assert.Zero(t, pruned)
}
