package profile

// Tag is the build tag that enables profiling. It also names the
// subdirectory of the cache directory where profiles are written by default.
const Tag = "pprof"

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Path is the directory profiles are written to.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start starts the profiler and returns a [Stopper] for it.
//
// Without the pprof build tag, or with an empty or unknown Mode, Start returns
// a no-op. Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
