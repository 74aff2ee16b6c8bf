package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"golang.org/x/text/encoding"

	"github.com/tinyzimmer/zipper/pkg/config"
)

// Writer writes zip entries with a fixed deflate level and entry name charset.
type Writer struct {
	zw   *zip.Writer
	enc  *encoding.Encoder
	utf8 bool
}

// NewWriter returns a new Writer writing a zip archive to w. Level is passed
// to the deflate compressor as is, so callers should normalize it first.
func NewWriter(w io.Writer, level int, charset string) (*Writer, error) {
	enc, err := config.LookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return &Writer{
		zw:   zw,
		enc:  enc.NewEncoder(),
		utf8: config.IsUTF8(charset),
	}, nil
}

func (w *Writer) header(name string) (*zip.FileHeader, error) {
	if w.utf8 {
		// archive/zip sets the language encoding flag when the name needs it
		return &zip.FileHeader{Name: name}, nil
	}
	encoded, err := w.enc.String(name)
	if err != nil {
		return nil, fmt.Errorf("cannot encode entry name %q: %w", name, err)
	}
	return &zip.FileHeader{Name: encoded, NonUTF8: true}, nil
}

// CreateDir writes a directory marker. A trailing slash is appended to the
// name when missing.
func (w *Writer) CreateDir(name string) error {
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	hdr, err := w.header(name)
	if err != nil {
		return err
	}
	hdr.Method = zip.Store
	hdr.Modified = time.Now()
	hdr.SetMode(fs.ModeDir | 0755)
	_, err = w.zw.CreateHeader(hdr)
	return err
}

// Create starts a deflated file entry and returns a writer for its contents.
// The returned writer is only valid until the next call to Create, CreateDir
// or Close.
func (w *Writer) Create(name string, modified time.Time) (io.Writer, error) {
	hdr, err := w.header(name)
	if err != nil {
		return nil, err
	}
	hdr.Method = zip.Deflate
	hdr.Modified = modified
	hdr.SetMode(0644)
	return w.zw.CreateHeader(hdr)
}

// Close finishes the archive by writing the central directory. It does not
// close the underlying writer.
func (w *Writer) Close() error { return w.zw.Close() }
