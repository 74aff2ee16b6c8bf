package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/tinyzimmer/zipper/pkg/archive"
	"github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
	"github.com/tinyzimmer/zipper/pkg/util"
)

var errNotDirectory = errors.New("path exists and is not a directory")

func (e *engine) UnpackFiles(sources []string, targetDir string) error {
	errs := make([]error, 0)
	for _, source := range sources {
		if err := e.Unpack(source, targetDir); err != nil {
			e.observer.Failed(source, err)
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
		}
	}
	return utilerrors.NewAggregate(errs)
}

func (e *engine) UnpackHere(source string) error {
	abs, err := filepath.Abs(source)
	if err != nil {
		return &types.SourceNotFoundError{Path: source, Err: err}
	}
	return e.Unpack(abs, filepath.Dir(abs))
}

func (e *engine) Unpack(source, targetDir string) error {
	// Unpacking does not take the gate, a snapshot keeps a concurrent Reset
	// from changing settings half way through an archive.
	settings := e.Settings()

	info, err := os.Stat(source)
	if err != nil {
		return &types.SourceNotFoundError{Path: source, Err: err}
	}
	if info.IsDir() {
		return &types.SourceNotFoundError{Path: source, Err: errors.New("source is a directory")}
	}
	if err := ensureDir(targetDir); err != nil {
		return err
	}

	log.Debugf("Unpacking %q into %q (%s)", source, targetDir, settings)
	r, err := archive.OpenReader(source, settings.Encoding)
	if err != nil {
		return &types.IOFailureError{Path: source, Err: err}
	}
	defer r.Close()

	entries, err := r.Entries()
	if err != nil {
		return &types.IOFailureError{Path: source, Err: err}
	}

	u := &unpacker{
		source:    source,
		targetDir: targetDir,
		overwrite: settings.Overwrite,
		observer:  e.observer,
		bufSize:   settings.BufferSize,
		buf:       make([]byte, settings.BufferSize),
	}
	for _, entry := range entries {
		if err := u.extract(entry); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return &types.DirectoryCreateError{Path: dir, Err: errNotDirectory}
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &types.DirectoryCreateError{Path: dir, Err: err}
	}
	return nil
}

type unpacker struct {
	source    string
	targetDir string
	overwrite bool
	observer  types.Observer
	bufSize   int
	buf       []byte
}

func (u *unpacker) extract(entry *archive.Entry) error {
	// Entry names are scoped to the target directory, ".." cannot climb out of it
	dest, err := securejoin.SecureJoin(u.targetDir, entry.Name)
	if err != nil {
		return &types.IOFailureError{Path: entry.Name, Err: err}
	}

	if entry.IsDir() {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return &types.DirectoryCreateError{Path: dest, Err: err}
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &types.DirectoryCreateError{Path: filepath.Dir(dest), Err: err}
	}
	if util.Exists(dest) && !u.overwrite {
		u.observer.Skipped(dest, "file exists and coverage mode is disabled")
		return nil
	}
	if err := u.write(entry, dest); err != nil {
		return err
	}
	u.observer.EntryExtracted(u.source, dest)
	return nil
}

func (u *unpacker) write(entry *archive.Entry, dest string) error {
	rc, err := entry.Open()
	if err != nil {
		return &types.IOFailureError{Path: u.source, Err: err}
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &types.IOFailureError{Path: dest, Err: err}
	}
	bw := bufio.NewWriterSize(out, u.bufSize)
	// hide ReaderFrom so the copy goes through the configured buffer
	if _, err := io.CopyBuffer(struct{ io.Writer }{bw}, rc, u.buf); err != nil {
		out.Close()
		return &types.IOFailureError{Path: dest, Err: err}
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return &types.IOFailureError{Path: dest, Err: err}
	}
	if err := out.Close(); err != nil {
		return &types.IOFailureError{Path: dest, Err: err}
	}
	return nil
}
