package capture

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pagevault/pagevault/constant"
)

// ToolMissingError is returned when the capture tool cannot be found.
// No capture is attempted in that case.
type ToolMissingError struct {
	// Searched lists the names looked up, in order.
	Searched []string
	// Hint tells the user how to install the tool.
	Hint string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("capture tool not found (looked for %v), install it with: %s", e.Searched, e.Hint)
}

// candidates returns the executable names tried for the platform.
func candidates() []string {
	if runtime.GOOS == constant.Windows {
		return []string{constant.SingleFileWindows, constant.SingleFile}
	}
	return []string{constant.SingleFile}
}

// Locate resolves the capture tool executable.
// A configured path or name takes precedence over the platform defaults.
func Locate(configured string) (string, error) {
	names := candidates()
	if configured != "" {
		names = []string{configured}
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", &ToolMissingError{
		Searched: names,
		Hint:     constant.SingleFileInstall,
	}
}
