package types

// Observer receives advisory progress from an Engine. Implementations must be
// safe for concurrent use, since unpack operations are not serialized.
type Observer interface {
	// EntryWritten is called before each entry is written to an archive.
	EntryWritten(archive, name string)
	// EntryExtracted is called after an entry has been written to disk.
	EntryExtracted(archive, path string)
	// Skipped is called when a file is intentionally left out.
	Skipped(path, reason string)
	// TargetExists is called when a pack is skipped because the target archive
	// exists and overwrite is disabled.
	TargetExists(target string)
	// Failed is called for each source that fails during UnpackFiles.
	Failed(source string, err error)
}
