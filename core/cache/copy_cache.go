package cache

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/zeebo/xxh3"
)

// contentEntry remembers the hash of a file for as long as its size and
// modification time stay the same.
type contentEntry struct {
	hash    uint64
	modTime time.Time
	size    int64
}

type Stats struct {
	TotalFiles  int     `json:"total_files"`
	Owners      int     `json:"owners"`
	CacheHits   int64   `json:"cache_hits"`
	CacheMisses int64   `json:"cache_misses"`
	HitRate     float64 `json:"hit_rate"`
}

// CopyCache tracks vendored files for one run: which source owns each
// destination, and whether a destination already holds a source's bytes.
// It is safe for concurrent use.
type CopyCache struct {
	entries map[string]*contentEntry
	owners  map[string]string
	mutex   sync.Mutex
	stats   struct {
		hits   int64
		misses int64
	}
}

func NewCopyCache() *CopyCache {
	return &CopyCache{
		entries: make(map[string]*contentEntry),
		owners:  make(map[string]string),
	}
}

// Claim registers source as the origin of dest. When a different source
// already claimed dest it is returned with conflict set; the new source
// replaces it.
func (cc *CopyCache) Claim(dest, source string) (previous string, conflict bool) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	previous, exists := cc.owners[dest]
	cc.owners[dest] = source
	if exists && previous != source {
		return previous, true
	}
	return "", false
}

// Unchanged reports whether dest exists and holds the same content as source.
func (cc *CopyCache) Unchanged(source, dest string) (bool, error) {
	srcStat, err := os.Stat(source)
	if err != nil {
		return false, err
	}
	dstStat, err := os.Stat(dest)
	if os.IsNotExist(err) {
		cc.recordMiss()
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if srcStat.Size() != dstStat.Size() {
		cc.recordMiss()
		return false, nil
	}

	srcHash, err := cc.hash(source, srcStat)
	if err != nil {
		return false, err
	}
	dstHash, err := cc.hash(dest, dstStat)
	if err != nil {
		return false, err
	}

	if srcHash != dstHash {
		cc.recordMiss()
		return false, nil
	}
	cc.recordHit()
	logger.Debug("CopyCache: %s already up to date with %s", dest, source)
	return true, nil
}

// Forget drops the remembered hash of path, e.g. after it was rewritten.
func (cc *CopyCache) Forget(path string) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	delete(cc.entries, path)
}

func (cc *CopyCache) GetStats() *Stats {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	total := cc.stats.hits + cc.stats.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(cc.stats.hits) / float64(total) * 100
	}

	return &Stats{
		TotalFiles:  len(cc.entries),
		Owners:      len(cc.owners),
		CacheHits:   cc.stats.hits,
		CacheMisses: cc.stats.misses,
		HitRate:     hitRate,
	}
}

func (cc *CopyCache) LogStats() {
	stats := cc.GetStats()
	logger.Debug("Copy cache stats: Hits=%d, Misses=%d, Hit Rate=%.1f%%, Files=%d, Destinations=%d",
		stats.CacheHits, stats.CacheMisses, stats.HitRate, stats.TotalFiles, stats.Owners)
}

func (cc *CopyCache) Clear() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	cc.entries = make(map[string]*contentEntry)
	cc.owners = make(map[string]string)
	cc.stats.hits = 0
	cc.stats.misses = 0
}

func (cc *CopyCache) hash(path string, stat os.FileInfo) (uint64, error) {
	cc.mutex.Lock()
	entry, exists := cc.entries[path]
	cc.mutex.Unlock()

	if exists && entry.size == stat.Size() && entry.modTime.Equal(stat.ModTime()) {
		return entry.hash, nil
	}

	sum, err := calculateFileHash(path)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate hash for %s: %w", path, err)
	}

	cc.mutex.Lock()
	cc.entries[path] = &contentEntry{hash: sum, modTime: stat.ModTime(), size: stat.Size()}
	cc.mutex.Unlock()
	return sum, nil
}

func (cc *CopyCache) recordHit() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.stats.hits++
}

func (cc *CopyCache) recordMiss() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.stats.misses++
}

func calculateFileHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	hasher := xxh3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return 0, err
	}
	return hasher.Sum64(), nil
}
