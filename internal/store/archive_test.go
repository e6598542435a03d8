package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/structures"
	"chronicle/internal/testutil"
)

func newTestArchive(t *testing.T, dir string, ttl time.Duration) *ImageArchive {
	t.Helper()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	conf := &structures.Config{
		Chronicle: structures.ChronicleConfig{ArchiveDir: dir, ArchiveTTL: ttl},
	}
	return NewImageArchive(conf, comp, &testutil.MockLogger{})
}

func TestImageArchive_DisabledWithoutDir(t *testing.T) {
	a := newTestArchive(t, "", time.Hour)
	assert.False(t, a.Enabled())
	a.Save("2024-1-9", "solarterm", "data:image/png;base64,AAAA")
	assert.Nil(t, a.Days())
}

func TestImageArchive_SaveAndList(t *testing.T) {
	dir := t.TempDir()
	a := newTestArchive(t, dir, time.Hour)

	a.Save("2024-1-9", "solarterm", "data:image/png;base64,AAAA")
	a.Save("2024-1-9", "image:event:2007_iPhone", "data:image/png;base64,BBBB")
	a.Save("2024-1-10", "solarterm", "data:image/png;base64,CCCC")

	days := a.Days()
	require.Len(t, days, 2)
	assert.Equal(t, []string{"2024-1-9", "2024-1-10"}, []string{days[1], days[0]})
}

func TestImageArchive_SaveMergesSlots(t *testing.T) {
	dir := t.TempDir()
	a := newTestArchive(t, dir, time.Hour)

	a.Save("2024-1-9", "solarterm", "data:image/png;base64,AAAA")
	a.Save("2024-1-9", "other", "data:image/png;base64,BBBB")

	file := a.load("2024-1-9")
	require.NotNil(t, file)
	assert.Len(t, file.Images, 2)
	assert.Equal(t, "data:image/png;base64,AAAA", file.Images["solarterm"])
}

func TestImageArchive_EmptyURIIgnored(t *testing.T) {
	dir := t.TempDir()
	a := newTestArchive(t, dir, time.Hour)
	a.Save("2024-1-9", "solarterm", "")
	assert.Empty(t, a.Days())
}

func TestImageArchive_PruneRemovesExpired(t *testing.T) {
	dir := t.TempDir()
	a := newTestArchive(t, dir, time.Hour)

	a.Save("2024-1-9", "solarterm", "data:image/png;base64,AAAA")
	a.Save("2024-1-10", "solarterm", "data:image/png;base64,BBBB")

	// Age one file past the TTL via its mtime.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "2024-1-9.zst"), old, old))

	a.Prune()

	days := a.Days()
	require.Len(t, days, 1)
	assert.Equal(t, "2024-1-10", days[0])
}

func TestImageArchive_PruneDisabledWithoutTTL(t *testing.T) {
	dir := t.TempDir()
	a := newTestArchive(t, dir, 0)

	a.Save("2024-1-9", "solarterm", "data:image/png;base64,AAAA")
	old := time.Now().Add(-time.Hour * 24 * 365)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "2024-1-9.zst"), old, old))

	a.Prune()
	assert.Len(t, a.Days(), 1)
}
