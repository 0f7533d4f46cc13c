//go:build linux
// +build linux

package procid

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func init() {
	resolvers.MustRegister("procfs", 100, procfsResolver{})
}

// procfsResolver reads the pid from /proc/self/stat. It outranks the
// getpid fallback so the procfs path is exercised where available.
type procfsResolver struct{}

func (procfsResolver) Available() bool {
	_, err := os.Stat("/proc/self/stat")
	return err == nil
}

func (procfsResolver) Resolve(ctx context.Context) (int32, error) {
	data, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, fmt.Errorf("reading /proc/self/stat: %w", err)
	}

	// First space-separated field is the pid.
	field, _, ok := strings.Cut(strings.TrimSpace(string(data)), " ")
	if !ok {
		return 0, fmt.Errorf("malformed /proc/self/stat: %q", data)
	}
	pid, err := strconv.ParseInt(field, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing pid from /proc/self/stat: %w", err)
	}
	return int32(pid), nil
}
