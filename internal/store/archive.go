package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"chronicle/internal/providers"
	"chronicle/internal/store/interfaces"
	"chronicle/internal/structures"
)

// ArchiveFile is the on-disk format for one archived day.
type ArchiveFile struct {
	DayKey     string            `json:"day_key"`
	Images     map[string]string `json:"images"` // slot → data URI
	ArchivedAt time.Time         `json:"archived_at"`
}

// ImageArchive keeps generated illustrations on disk past the day cache's
// midnight expiry so earlier days' art stays browsable. Writes are best
// effort; a failed archive never affects the load cycle.
type ImageArchive struct {
	mu         sync.Mutex
	dir        string
	ttl        time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewImageArchive(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *ImageArchive {
	if dir := conf.Chronicle.ArchiveDir; dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Errorf(providers.TypeApp, "Failed to create archive dir %s: %s", dir, err)
		}
	}
	return &ImageArchive{
		dir:        conf.Chronicle.ArchiveDir,
		ttl:        conf.Chronicle.ArchiveTTL,
		compressor: compressor,
		logger:     logger,
	}
}

func (a *ImageArchive) Enabled() bool {
	return a.dir != ""
}

func (a *ImageArchive) path(dayKey string) string {
	return filepath.Join(a.dir, dayKey+".zst")
}

// Save records one illustration under the given slot for the day,
// merging into an existing archive file if one is present.
func (a *ImageArchive) Save(dayKey, slot, dataURI string) {
	if !a.Enabled() || dataURI == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	file := a.load(dayKey)
	if file == nil {
		file = &ArchiveFile{DayKey: dayKey, Images: make(map[string]string)}
	}
	file.Images[slot] = dataURI
	file.ArchivedAt = time.Now()

	jsonData, err := json.Marshal(file)
	if err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to marshal archive for %s: %s", dayKey, err)
		return
	}
	data, err := a.compressor.Compress(jsonData)
	if err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to compress archive for %s: %s", dayKey, err)
		return
	}
	if err := os.WriteFile(a.path(dayKey), data, 0644); err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to write archive for %s: %s", dayKey, err)
	}
}

func (a *ImageArchive) load(dayKey string) *ArchiveFile {
	data, err := os.ReadFile(a.path(dayKey))
	if err != nil {
		return nil
	}
	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to decompress archive %s: %s", dayKey, err)
		return nil
	}
	var file ArchiveFile
	if err := json.Unmarshal(decompressed, &file); err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to parse archive %s: %s", dayKey, err)
		return nil
	}
	if file.Images == nil {
		file.Images = make(map[string]string)
	}
	return &file
}

// Days lists archived day keys, newest first.
func (a *ImageArchive) Days() []string {
	if !a.Enabled() {
		return nil
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil
	}

	days := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".zst") {
			continue
		}
		days = append(days, strings.TrimSuffix(name, ".zst"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}

// Prune removes archive files older than the configured TTL.
func (a *ImageArchive) Prune() {
	if !a.Enabled() || a.ttl <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-a.ttl)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zst") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(a.dir, e.Name())
			if err := os.Remove(path); err != nil {
				a.logger.Errorf(providers.TypeApp, "Failed to prune archive file %s: %s", path, err)
			}
		}
	}
}
