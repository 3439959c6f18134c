// Package profile provides optional runtime profiling for envtab using
// [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag:
//
//	go build -tags pprof .
//	envtab --pprof-mode cpu show
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty. With it,
// [net/http/pprof] handlers are also registered on the default mux.
//
// Profiles are written to the directory named by [Profiler.Path], by default
// the pprof subdirectory of the user cache directory, and can be inspected
// with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/envtab/pprof/cpu.pprof
package profile
