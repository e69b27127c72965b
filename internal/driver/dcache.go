package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the payload format changes; a mismatched schema is a miss.
const diskCacheSchemaVersion uint16 = 1

// Digest is a sha256 content address.
type Digest [sha256.Size]byte

// HashBytes digests unit content for cache addressing.
func HashBytes(chunks ...[]byte) Digest {
	h := sha256.New()
	for _, c := range chunks {
		h.Write(c)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// CachedDiagnostic is the serializable form of one diagnostic.
type CachedDiagnostic struct {
	Code  uint16
	Sev   uint8
	File  uint32
	Start uint32
	End   uint32
	Msg   string
}

// CachedLayout is one type's computed size and alignment.
type CachedLayout struct {
	Type  uint32
	Size  int
	Align int
}

// DiskPayload is what a checked unit leaves on disk: enough to answer
// "did this unit check cleanly, and what did its types look like" without
// re-running the pipeline.
type DiskPayload struct {
	Schema      uint16
	Unit        string
	ContentHash Digest

	Broken      bool
	Diagnostics []CachedDiagnostic
	Layouts     []CachedLayout
}

// DiskCache stores per-unit payloads addressed by content hash.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens the cache at the user's cache directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put writes a payload atomically: temp file plus rename.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	payload.ContentHash = key

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, p)
}

// Get loads a payload; a missing file, stale schema or hash mismatch is a
// plain miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, nil
	}
	if out.Schema != diskCacheSchemaVersion || out.ContentHash != key {
		return false, nil
	}
	return true, nil
}

// SnapshotPayload summarizes a snapshot for caching. Layout summaries cover
// every registered nominal type whose layout computes.
func SnapshotPayload(snap *Snapshot) *DiskPayload {
	payload := &DiskPayload{
		Unit:   snap.Unit,
		Broken: snap.Bag.HasErrors(),
	}
	for _, d := range snap.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, CachedDiagnostic{
			Code:  uint16(d.Code),
			Sev:   uint8(d.Severity),
			File:  uint32(d.Primary.File),
			Start: d.Primary.Start,
			End:   d.Primary.End,
			Msg:   d.Message,
		})
	}
	for _, t := range snap.Res.Types.NominalTypes() {
		l, err := snap.Layout.LayoutOf(t)
		if err != nil {
			continue
		}
		payload.Layouts = append(payload.Layouts, CachedLayout{
			Type:  uint32(t),
			Size:  l.Size,
			Align: l.Align,
		})
	}
	return payload
}
