package types

import "time"

// Entry describes a single file or directory marker inside an archive.
type Entry struct {
	Name           string    `json:"name" yaml:"name"`
	Dir            bool      `json:"dir,omitempty" yaml:"dir,omitempty"`
	Size           uint64    `json:"size" yaml:"size"`
	CompressedSize uint64    `json:"compressedSize" yaml:"compressedSize"`
	CRC32          uint32    `json:"crc32" yaml:"crc32"`
	Method         string    `json:"method" yaml:"method"`
	Modified       time.Time `json:"modified" yaml:"modified"`
	// Only populated when explicitly requested, since it requires reading
	// the entry contents.
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
}
