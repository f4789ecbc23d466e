package rescache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// formatVersion is embedded in every on-disk envelope so a reader can
// detect version skew without fully decompressing.
const formatVersion byte = 1

var (
	encOnce sync.Once
	encoder *zstd.Encoder
	decOnce sync.Once
	decoder *zstd.Decoder
)

func getEncoder() *zstd.Encoder {
	encOnce.Do(func() { encoder, _ = zstd.NewWriter(nil) })
	return encoder
}

func getDecoder() *zstd.Decoder {
	decOnce.Do(func() { decoder, _ = zstd.NewReader(nil) })
	return decoder
}

// sidecarMeta is the human-inspectable YAML metadata written alongside
// each compressed entry.
type sidecarMeta struct {
	Module    string `yaml:"module"`
	Content   string `yaml:"content_hash"`
	Timestamp int64  `yaml:"timestamp"`
	SizeBytes int64  `yaml:"size_bytes"`
	NumErrors int    `yaml:"num_errors"`
	NumTypes  int    `yaml:"num_types"`
}

// diskTier stores one file per CacheEntry under dir.
type diskTier struct {
	dir string
}

func newDiskTier(dir string) *diskTier {
	return &diskTier{dir: dir}
}

func (d *diskTier) path(key Key) string {
	return filepath.Join(d.dir, key.Filename())
}

// Write atomically persists entry: write to a temp file, then rename
// over the final path.
func (d *diskTier) Write(key Key, entry *Entry) error {
	if d.dir == "" {
		return nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("rescache: create cache dir: %w", err)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("rescache: marshal entry: %w", err)
	}
	compressed := getEncoder().EncodeAll(payload, nil)

	var envelope bytes.Buffer
	envelope.WriteByte(formatVersion)
	envelope.Write(entry.Content[:])
	envelope.Write(compressed)

	final := d.path(key)
	tmp := final + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("rescache: create temp file: %w", err)
	}
	if _, err := f.Write(envelope.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("rescache: write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("rescache: fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rescache: rename temp file: %w", err)
	}

	meta := sidecarMeta{
		Module:    key.Module.Hex(),
		Content:   key.Content.Hex(),
		Timestamp: entry.Timestamp,
		SizeBytes: entry.SizeBytes,
		NumErrors: len(entry.Errors),
		NumTypes:  len(entry.Types),
	}
	if metaBytes, err := yaml.Marshal(meta); err == nil {
		_ = os.WriteFile(final+".yaml", metaBytes, 0o644)
	}
	return nil
}

// Read loads entry for key, returning (nil, false, nil) on a clean miss
// and deleting the entry when version skew or a content-hash mismatch
// is detected.
func (d *diskTier) Read(key Key) (*Entry, bool, error) {
	if d.dir == "" {
		return nil, false, nil
	}
	raw, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(raw) < 1+len(key.Content) {
		d.evictCorrupt(key)
		return nil, false, nil
	}
	if raw[0] != formatVersion {
		d.evictCorrupt(key)
		return nil, false, nil
	}
	storedHash := raw[1 : 1+len(key.Content)]
	if !bytes.Equal(storedHash, key.Content[:]) {
		d.evictCorrupt(key)
		return nil, false, nil
	}

	payload, err := getDecoder().DecodeAll(raw[1+len(key.Content):], nil)
	if err != nil {
		d.evictCorrupt(key)
		return nil, false, nil
	}
	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		d.evictCorrupt(key)
		return nil, false, nil
	}
	return &entry, true, nil
}

func (d *diskTier) evictCorrupt(key Key) {
	os.Remove(d.path(key))
	os.Remove(d.path(key) + ".yaml")
}

func (d *diskTier) Remove(key Key) {
	if d.dir == "" {
		return
	}
	os.Remove(d.path(key))
	os.Remove(d.path(key) + ".yaml")
}
