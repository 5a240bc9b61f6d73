// Package buildconfig carries build-time version metadata injected via
// ldflags; /health reports it.
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}
