// Package util holds small helpers about the process environment
package util

import (
	"os"
	"strings"
)

var (
	dockerEnvFile = "/.dockerenv"
	cgroupFile    = "/proc/1/cgroup"
)

// IsRunningInDocker reports whether the process runs inside a container.
// Docker leaves /.dockerenv behind, other runtimes only show up in the
// init process' cgroup.
func IsRunningInDocker() bool {
	if _, err := os.Stat(dockerEnvFile); err == nil {
		return true
	}

	b, err := os.ReadFile(cgroupFile)
	if err != nil {
		return false
	}

	s := string(b)
	return strings.Contains(s, "docker") || strings.Contains(s, "containerd") || strings.Contains(s, "kubepods")
}
