//go:build darwin

package helpers

import (
	"os/exec"
	"strconv"
	"strings"
)

// GetTotalSystemMemoryMB shells out to sysctl for hw.memsize. Returns 0 when
// the probe fails so the caller falls back to the default budget.
func GetTotalSystemMemoryMB() int {
	cmd := exec.Command("sysctl", "-n", "hw.memsize")
	out, err := cmd.Output()
	if err != nil {
		return 0
	}

	bytesStr := strings.TrimSpace(string(out))
	bytes, err := strconv.ParseInt(bytesStr, 10, 64)
	if err != nil {
		return 0
	}

	return int(bytes / 1024 / 1024)
}
