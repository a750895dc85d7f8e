package config

import (
	"os"
	"sync"
)

var (
	inContainerOnce sync.Once
	inContainer     bool
)

// RunningInContainer reports whether the process runs inside a container,
// detected by the /.dockerenv marker file. The result is cached after the
// first call.
func RunningInContainer() bool {
	inContainerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		inContainer = err == nil
	})
	return inContainer
}

// ResolveHost maps loopback addresses to host.docker.internal when crewctl
// itself runs containerized, so it can still reach a store listening on
// the host machine. Any other host passes through unchanged.
func ResolveHost(host string) string {
	return resolveHost(host, RunningInContainer())
}

func resolveHost(host string, containerized bool) string {
	if !containerized {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}
