package types

import "fmt"

// Settings holds the parameters applied to every pack and unpack operation.
// Values are expected to have passed through config.Normalize before they
// reach an engine.
type Settings struct {
	// The size of the buffer used when streaming file contents in and out
	// of the archive. Always a power of two.
	BufferSize int `json:"bufferSize" yaml:"bufferSize"`
	// The deflate level for file entries, between 1 and 8.
	Level int `json:"level" yaml:"level"`
	// The charset used for entry names. Archives must be read back with the
	// same charset they were written with.
	Encoding string `json:"charset" yaml:"charset"`
	// Whether existing targets (archives on pack, files on unpack) are replaced.
	Overwrite bool `json:"coverageMode" yaml:"coverageMode"`
}

func (s Settings) String() string {
	return fmt.Sprintf("bufferSize=%d, level=%d, charset=%s, coverageMode=%t",
		s.BufferSize, s.Level, s.Encoding, s.Overwrite)
}
