package engine

import (
	"github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
)

// LogObserver returns an observer that writes progress to the log package.
func LogObserver() types.Observer { return logObserver{} }

type logObserver struct{}

func (logObserver) EntryWritten(archive, name string) { log.Debugf("%s <- %s", archive, name) }

func (logObserver) EntryExtracted(archive, path string) { log.Debugf("%s -> %s", archive, path) }

func (logObserver) Skipped(path, reason string) { log.Warningf("Skipping %q: %s", path, reason) }

func (logObserver) TargetExists(target string) {
	log.Warningf("%q already exists, set a different target or enable coverage mode", target)
}

func (logObserver) Failed(source string, err error) { log.Errorf("Failed to unpack %q: %s", source, err) }

// NopObserver returns an observer that discards everything.
func NopObserver() types.Observer { return nopObserver{} }

type nopObserver struct{}

func (nopObserver) EntryWritten(string, string) {}

func (nopObserver) EntryExtracted(string, string) {}

func (nopObserver) Skipped(string, string) {}

func (nopObserver) TargetExists(string) {}

func (nopObserver) Failed(string, error) {}
