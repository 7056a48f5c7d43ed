package instance

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{OwnerPID: 4242, ClaimedAt: time.Unix(1700000000, 0), AppTag: testTag}

	parsed, err := ParseRecord([]byte(rec.String()))
	require.NoError(t, err)
	assert.Equal(t, rec.OwnerPID, parsed.OwnerPID)
	assert.True(t, rec.ClaimedAt.Equal(parsed.ClaimedAt))
	assert.Equal(t, rec.AppTag, parsed.AppTag)
}

func TestNewRecordDescribesCurrentProcess(t *testing.T) {
	rec := NewRecord(testTag)

	assert.Equal(t, os.Getpid(), rec.OwnerPID)
	assert.Equal(t, testTag, rec.AppTag)
	assert.Less(t, rec.Age(), time.Minute)
}

func TestParseRecordMalformed(t *testing.T) {
	cases := []string{
		"",
		"not a record",
		"12|34",
		"-1|1700000000|ghostman",
		"0|1700000000|ghostman",
		"abc|1700000000|ghostman",
		"4242|never|ghostman",
	}
	for _, c := range cases {
		_, err := ParseRecord([]byte(c))
		assert.ErrorIs(t, err, ErrMalformedRecord, "input %q", c)
	}
}

func TestParseRecordTrailingWhitespace(t *testing.T) {
	parsed, err := ParseRecord([]byte("4242|1700000000|ghostman\n"))
	require.NoError(t, err)
	assert.Equal(t, 4242, parsed.OwnerPID)
	assert.Equal(t, "ghostman", parsed.AppTag)
}

func TestParseRecordTagMayContainSeparator(t *testing.T) {
	parsed, err := ParseRecord([]byte("1|2|a|b"))
	require.NoError(t, err)
	assert.Equal(t, "a|b", parsed.AppTag)
}

func TestReadRecordMissingFile(t *testing.T) {
	_, err := readRecord(filepath.Join(t.TempDir(), "absent.lock"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
