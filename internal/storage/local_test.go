package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := store.Exists(ctx, LatestReportKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, LatestReportKey, []byte("%PDF-1.3"), "application/pdf"))

	ok, err = store.Exists(ctx, LatestReportKey)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := store.Get(ctx, LatestReportKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), data)
	assert.FileExists(t, filepath.Join(store.Root(), "reports", "ats_report.pdf"))
}

func TestLocalStoreConcurrentPutsSameKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	const writers = 8
	payloads := make([][]byte, writers)
	for i := range payloads {
		size := 10
		if i%2 == 1 {
			size = 256 << 10
		}
		payloads[i] = bytes.Repeat([]byte{byte('a' + i)}, size)
	}

	for round := range 50 {
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for _, payload := range payloads {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.Put(ctx, LatestReportKey, payload, "application/pdf")
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err, "round %d", round)
		}

		data, err := store.Get(ctx, LatestReportKey)
		require.NoError(t, err)
		assert.Contains(t, payloads, data, "round %d: stored object is not one complete payload", round)
	}

	entries, err := os.ReadDir(filepath.Join(store.Root(), "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files left behind")
	assert.Equal(t, "ats_report.pdf", entries[0].Name())
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), ReportKey("nope"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.pdf", "reports/../../etc/passwd"} {
		err := store.Put(ctx, key, []byte("x"), "")
		require.Error(t, err, key)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), key)
	}
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Put(ctx, "a", nil, ""), context.Canceled)
}

func TestKeys(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	key := ResumeKey(now, "PDF")
	assert.Regexp(t, `^resumes/2026/03/[0-9a-f-]{36}\.pdf$`, key)
	assert.NotEqual(t, key, ResumeKey(now, ".pdf"))

	assert.Equal(t, "reports/abc.pdf", ReportKey("abc"))
}

func TestNewSelectsBackend(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{
		Backend: "local",
		Local:   config.LocalStorageConfig{Dir: t.TempDir()},
	})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = New(context.Background(), config.StorageConfig{Backend: "s3"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
