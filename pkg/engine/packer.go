package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/tinyzimmer/zipper/pkg/archive"
	"github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
	"github.com/tinyzimmer/zipper/pkg/util"
)

func (e *engine) PackSingle(source, target string) error {
	return e.Pack([]string{source}, target)
}

// Pack writes sources into target. The overwrite precondition is checked
// before the gate is taken, so two packs racing to create the same named
// target may both pass it and the last one to finish wins.
func (e *engine) Pack(sources []string, target string) error {
	target, err := filepath.Abs(target)
	if err != nil {
		return &types.IOFailureError{Path: target, Err: err}
	}
	intoDir := util.IsDir(target)

	// Checked before taking the gate so a refused pack never waits or touches disk
	if !intoDir && util.Exists(target) && !e.Settings().Overwrite {
		e.observer.TargetExists(target)
		return fmt.Errorf("%w: %s", types.ErrTargetExists, target)
	}

	e.acquire()
	defer e.release()

	if len(sources) == 0 {
		return types.ErrNoInput
	}

	settings := e.Settings()

	var out *output
	if intoDir {
		out, err = createInDir(target)
	} else {
		out, err = createReplacement(target)
	}
	if err != nil {
		return err
	}
	log.Debugf("Packing %d source(s) into %q (%s)", len(sources), out.name, settings)

	p, err := newPacker(out, settings, e.observer)
	if err == nil {
		err = p.packAll(sources)
		if cerr := p.close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		// a partially written archive is never valid
		if rerr := out.discard(); rerr != nil {
			log.Warningf("Could not remove incomplete archive %q: %s", out.file.Name(), rerr)
		}
		return err
	}
	return out.commit()
}

// archiveName returns the absolute path of a top level source and the name it
// is stored under. Sources are rooted at the name of their parent directory,
// so siblings share a base directory in the archive.
func archiveName(source string) (string, string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", "", &types.SourceNotFoundError{Path: source, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", "", &types.SourceNotFoundError{Path: source, Err: err}
	}
	base := filepath.Base(filepath.Dir(resolved))
	if base == string(filepath.Separator) || base == "." {
		base = ""
	}
	return abs, path.Join(base, filepath.Base(abs)), nil
}

// openSource opens a file to be streamed into an archive.
var openSource = func(name string) (io.ReadCloser, error) { return os.Open(name) }

// packer holds a single archive writer session.
type packer struct {
	target   string
	out      *output
	observer types.Observer

	bw  *bufio.Writer
	zw  *archive.Writer
	buf []byte
}

func newPacker(out *output, settings types.Settings, observer types.Observer) (*packer, error) {
	bw := bufio.NewWriterSize(out.file, settings.BufferSize)
	zw, err := archive.NewWriter(bw, settings.Level, settings.Encoding)
	if err != nil {
		out.file.Close()
		return nil, err
	}
	return &packer{
		target:   out.name,
		out:      out,
		observer: observer,
		bw:       bw,
		zw:       zw,
		buf:      make([]byte, settings.BufferSize),
	}, nil
}

// close finishes the archive and releases the target file. It always closes
// the file, even when finishing the archive fails.
func (p *packer) close() error {
	err := p.zw.Close()
	if ferr := p.bw.Flush(); err == nil {
		err = ferr
	}
	if cerr := p.out.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &types.IOFailureError{Path: p.target, Err: err}
	}
	return nil
}

func (p *packer) packAll(sources []string) error {
	for _, source := range sources {
		abs, name, err := archiveName(source)
		if err != nil {
			return err
		}
		if err := p.pack(abs, name, nil); err != nil {
			return err
		}
	}
	return nil
}

// pack writes file under name. Ancestors holds the directories above file in
// the current walk and is used to break symlink cycles.
func (p *packer) pack(file, name string, ancestors []os.FileInfo) error {
	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return &types.SourceNotFoundError{Path: file, Err: err}
		}
		return &types.IOFailureError{Path: file, Err: err}
	}
	if info.IsDir() {
		for _, a := range ancestors {
			if os.SameFile(a, info) {
				p.observer.Skipped(file, "directory links back to one of its parents")
				return nil
			}
		}
		return p.packDir(file, name, append(ancestors, info))
	}
	if p.out.excludes(file, info) {
		p.observer.Skipped(file, "file is the archive being written")
		return nil
	}
	return p.packFile(file, name, info)
}

func (p *packer) packDir(dir, name string, ancestors []os.FileInfo) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return &types.IOFailureError{Path: dir, Err: err}
	}
	if len(children) == 0 {
		p.observer.EntryWritten(p.target, name+"/")
		if err := p.zw.CreateDir(name); err != nil {
			return &types.IOFailureError{Path: p.target, Err: err}
		}
		return nil
	}
	for _, child := range children {
		if err := p.pack(filepath.Join(dir, child.Name()), path.Join(name, child.Name()), ancestors); err != nil {
			return err
		}
	}
	return nil
}

func (p *packer) packFile(file, name string, info os.FileInfo) error {
	in, err := openSource(file)
	if err != nil {
		return &types.IOFailureError{Path: file, Err: err}
	}
	defer in.Close()

	p.observer.EntryWritten(p.target, name)
	w, err := p.zw.Create(name, info.ModTime())
	if err != nil {
		return &types.IOFailureError{Path: p.target, Err: err}
	}
	// hide WriterTo so the copy goes through the configured buffer
	if _, err := io.CopyBuffer(w, struct{ io.Reader }{in}, p.buf); err != nil {
		return &types.IOFailureError{Path: file, Err: err}
	}
	return nil
}
