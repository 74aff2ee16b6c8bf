package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tinyzimmer/zipper/pkg/types"
)

// maxNameAttempts bounds the search for a free timestamped archive name.
const maxNameAttempts = 1000

// output is the file a pack writes to. Archives packed into a directory get a
// fresh timestamped name that is reserved exclusively. Named targets are
// written to a temporary file next to them and renamed into place on
// success, so a failed pack leaves an existing archive untouched.
type output struct {
	// the archive path reported to observers and produced on success
	name string
	file *os.File
	// set when file must be renamed over name on commit
	replace bool

	// files and canonical paths that must never be added to the archive
	excludeInfo  []os.FileInfo
	excludePaths []string
}

// createInDir reserves <unix-millis>.zip inside dir, adding a numeric suffix
// when another pack already holds that name.
func createInDir(dir string) (*output, error) {
	stamp := time.Now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		name := filepath.Join(dir, fmt.Sprintf("%d.zip", stamp))
		if i > 0 {
			name = filepath.Join(dir, fmt.Sprintf("%d-%d.zip", stamp, i))
		}
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return newOutput(name, f, false)
		}
		if !os.IsExist(err) {
			return nil, &types.IOFailureError{Path: name, Err: err}
		}
	}
	return nil, &types.IOFailureError{Path: dir, Err: fmt.Errorf("no free archive name after %d attempts", maxNameAttempts)}
}

// createReplacement opens a temporary file in the directory of target.
func createReplacement(target string) (*output, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, &types.IOFailureError{Path: target, Err: err}
	}
	return newOutput(target, f, true)
}

func newOutput(name string, f *os.File, replace bool) (*output, error) {
	info, err := f.Stat()
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, &types.IOFailureError{Path: name, Err: err}
	}
	o := &output{name: name, file: f, replace: replace, excludeInfo: []os.FileInfo{info}}
	if existing, err := os.Stat(name); err == nil && !os.SameFile(existing, info) {
		o.excludeInfo = append(o.excludeInfo, existing)
	}
	for _, p := range []string{name, f.Name()} {
		if canonical, err := canonicalPath(p); err == nil {
			o.excludePaths = append(o.excludePaths, canonical)
		}
	}
	return o, nil
}

// excludes reports whether file is the archive being written, either the
// same file on disk or the same canonical path.
func (o *output) excludes(file string, info os.FileInfo) bool {
	for _, ex := range o.excludeInfo {
		if os.SameFile(ex, info) {
			return true
		}
	}
	canonical, err := canonicalPath(file)
	if err != nil {
		return false
	}
	for _, p := range o.excludePaths {
		if p == canonical {
			return true
		}
	}
	return false
}

// commit moves a finished archive into place. The file must already be closed.
func (o *output) commit() error {
	if !o.replace {
		return nil
	}
	if err := os.Chmod(o.file.Name(), 0644); err != nil {
		o.discard()
		return &types.IOFailureError{Path: o.name, Err: err}
	}
	if err := os.Rename(o.file.Name(), o.name); err != nil {
		o.discard()
		return &types.IOFailureError{Path: o.name, Err: err}
	}
	return nil
}

// discard removes whatever this pack wrote. The file must already be closed.
func (o *output) discard() error {
	if err := os.Remove(o.file.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// canonicalPath returns the absolute path of p with every symlink in its
// directory resolved. The final element is kept as is so it also works for
// files that do not exist yet.
func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}
