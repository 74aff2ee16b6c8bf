package config

import "github.com/tinyzimmer/zipper/pkg/types"

const (
	// MinBufferSize is the smallest buffer used for streaming entries.
	MinBufferSize = 256
	// MaxBufferSize is the largest buffer used for streaming entries.
	MaxBufferSize = 65536
	// DefaultBufferSize is used when no buffer size is configured.
	DefaultBufferSize = 1024
	// DefaultLevel is used when the configured level is out of range.
	DefaultLevel = 6
	// DefaultEncoding is used for entry names when no charset is configured.
	DefaultEncoding = "UTF-8"
	// DefaultOverwrite is the default coverage mode.
	DefaultOverwrite = true
)

// NormalizeBufferSize clamps the requested size into [MinBufferSize, MaxBufferSize]
// and rounds it up to the next power of two. It never fails.
func NormalizeBufferSize(requested int) int {
	n := requested
	if n > MaxBufferSize {
		n = MaxBufferSize
	} else if n < MinBufferSize {
		n = MinBufferSize
	}
	// smear every bit below the highest set bit of n-1, then add one
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	if n >= MaxBufferSize {
		return MaxBufferSize
	}
	return n + 1
}

// NormalizeLevel returns the requested level when it is between 1 and 8,
// otherwise DefaultLevel.
func NormalizeLevel(requested int) int {
	if requested > 0 && requested < 9 {
		return requested
	}
	return DefaultLevel
}

// NormalizeEncoding returns the canonical name for the given charset, or
// DefaultEncoding when it cannot be resolved.
func NormalizeEncoding(name string) string {
	canonical, err := CanonicalEncoding(name)
	if err != nil {
		return DefaultEncoding
	}
	return canonical
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() types.Settings {
	return types.Settings{
		BufferSize: DefaultBufferSize,
		Level:      DefaultLevel,
		Encoding:   DefaultEncoding,
		Overwrite:  DefaultOverwrite,
	}
}

// NewSettings builds normalized settings from raw values.
func NewSettings(bufferSize, level int, encoding string, overwrite bool) types.Settings {
	return types.Settings{
		BufferSize: NormalizeBufferSize(bufferSize),
		Level:      NormalizeLevel(level),
		Encoding:   NormalizeEncoding(encoding),
		Overwrite:  overwrite,
	}
}

// Normalize returns a copy of s with every field passed through its policy.
func Normalize(s types.Settings) types.Settings {
	return NewSettings(s.BufferSize, s.Level, s.Encoding, s.Overwrite)
}
