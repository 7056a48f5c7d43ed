package instance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestRecord(t *testing.T, path string, pid int, tag string) {
	t.Helper()
	rec := Record{OwnerPID: pid, ClaimedAt: time.Now(), AppTag: tag}
	require.NoError(t, os.WriteFile(path, []byte(rec.String()+"\n"), 0o644))
}

func TestPIDLockAcquiresWhenFree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghostman.lock")

	h, err := PIDLock{Tag: testTag}.TryLock(path)
	require.NoError(t, err)
	require.NoError(t, h.Write(NewRecord(testTag)))
	require.NoError(t, h.Unlock())

	rec, err := readRecord(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.OwnerPID)
}

func TestPIDLockHeldByLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghostman.lock")
	writeTestRecord(t, path, os.Getpid(), testTag)

	_, err := PIDLock{Tag: testTag}.TryLock(path)
	assert.ErrorIs(t, err, ErrHeldByOther)
}

func TestPIDLockSupersedesDeadOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghostman.lock")
	writeTestRecord(t, path, deadPID(t), testTag)

	h, err := PIDLock{Tag: testTag}.TryLock(path)
	require.NoError(t, err)
	require.NoError(t, h.Unlock())
}

func TestPIDLockIgnoresForeignTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghostman.lock")
	// a live process, but some unrelated application's claim
	writeTestRecord(t, path, os.Getpid(), "teatimer")

	h, err := PIDLock{Tag: testTag}.TryLock(path)
	require.NoError(t, err)
	require.NoError(t, h.Unlock())
}

func TestPIDLockIgnoresMalformedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghostman.lock")
	require.NoError(t, os.WriteFile(path, []byte("scribbles\n"), 0o644))

	h, err := PIDLock{Tag: testTag}.TryLock(path)
	require.NoError(t, err)
	require.NoError(t, h.Unlock())
}

func TestPIDLockIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "ghostman.lock")

	_, err := PIDLock{Tag: testTag}.TryLock(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHeldByOther)
}
