package types

// Engine is the interface callers use to pack and unpack archives.
//
// Pack operations are single-flight per engine: concurrent calls queue behind
// each other and never share an archive writer. Unpack operations take no
// lock and may run alongside a pack on the same engine.
type Engine interface {
	// Pack writes the given files and directories to the target archive. Each
	// source is stored under the name of its parent directory. When target is
	// a directory a new timestamped archive is created inside it. A failed pack
	// leaves any existing archive at target untouched. The check for an
	// existing target happens before waiting on other packs, so two packs
	// creating the same new target may both run and the last one wins.
	Pack(sources []string, target string) error
	// PackSingle is a convenience wrapper around Pack for one source.
	PackSingle(source, target string) error
	// Unpack extracts the source archive into targetDir, creating it if needed.
	Unpack(source, targetDir string) error
	// UnpackHere extracts the source archive into the directory that contains it.
	UnpackHere(source string) error
	// UnpackFiles extracts every source into targetDir. A failure on one source
	// does not stop the others; all failures are returned as an aggregate.
	UnpackFiles(sources []string, targetDir string) error
	// Reset replaces the engine settings. It blocks until any in-flight pack
	// has finished, so it must not be called from an Observer during a pack on
	// the same engine.
	Reset(Settings)
	// Settings returns a copy of the current settings.
	Settings() Settings
	// Usable returns true when no pack is currently in flight.
	Usable() bool
}
