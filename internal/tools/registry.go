package tools

// Registry exposes shared tool instances.
type Registry struct {
	FS       *Filesystem
	Terminal *Terminal
	Tests    *TestRunner
}

// NewRegistry builds a registry from instantiated tools.
func NewRegistry(fs *Filesystem, term *Terminal, tests *TestRunner) *Registry {
	return &Registry{FS: fs, Terminal: term, Tests: tests}
}
