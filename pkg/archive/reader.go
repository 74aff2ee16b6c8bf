package archive

import (
	"archive/zip"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"golang.org/x/text/encoding"

	"github.com/tinyzimmer/zipper/pkg/config"
	"github.com/tinyzimmer/zipper/pkg/types"
	"github.com/tinyzimmer/zipper/pkg/util"
)

// Entry is a single entry of an opened archive.
type Entry struct {
	// Name is the entry name decoded with the reader's charset.
	Name string
	f    *zip.File
}

// IsDir returns true for directory markers.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/") || e.f.FileInfo().IsDir()
}

// Open returns a reader for the decompressed entry contents.
func (e *Entry) Open() (io.ReadCloser, error) { return e.f.Open() }

// Info returns the entry metadata.
func (e *Entry) Info() types.Entry {
	return types.Entry{
		Name:           e.Name,
		Dir:            e.IsDir(),
		Size:           e.f.UncompressedSize64,
		CompressedSize: e.f.CompressedSize64,
		CRC32:          e.f.CRC32,
		Method:         methodName(e.f.Method),
		Modified:       e.f.Modified,
	}
}

func methodName(m uint16) string {
	switch m {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	}
	return "unknown"
}

// Reader reads the entries of a zip archive on disk.
type Reader struct {
	rc   *zip.ReadCloser
	dec  *encoding.Decoder
	utf8 bool
}

// OpenReader opens the archive at path. Entry names that are not flagged as
// UTF-8 are decoded with the given charset.
func OpenReader(path, charset string) (*Reader, error) {
	enc, err := config.LookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	rc, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, err
	}
	rc.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
	return &Reader{
		rc:   rc,
		dec:  enc.NewDecoder(),
		utf8: config.IsUTF8(charset),
	}, nil
}

// Entries returns the archive entries in central directory order.
func (r *Reader) Entries() ([]*Entry, error) {
	entries := make([]*Entry, 0, len(r.rc.File))
	for _, f := range r.rc.File {
		name := f.Name
		if f.NonUTF8 && !r.utf8 {
			decoded, err := r.dec.String(f.Name)
			if err != nil {
				return nil, err
			}
			name = decoded
		}
		entries = append(entries, &Entry{Name: name, f: f})
	}
	return entries, nil
}

// Close closes the underlying archive file.
func (r *Reader) Close() error { return r.rc.Close() }

// List returns the metadata of every entry in the archive at path. When
// checksums is true the sha256 of each file entry is calculated as well.
func List(path, charset string, checksums bool) ([]types.Entry, error) {
	r, err := OpenReader(path, charset)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	entries, err := r.Entries()
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		info := e.Info()
		if checksums && !info.Dir {
			if info.SHA256, err = e.checksum(); err != nil {
				return nil, err
			}
		}
		out = append(out, info)
	}
	return out, nil
}

func (e *Entry) checksum() (string, error) {
	rc, err := e.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return util.CalculateSHA256Sum(rc)
}
