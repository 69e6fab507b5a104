package archive

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
)

var start = func(cmd *exec.Cmd) error {
	return cmd.Start()
}

// Open launches the snapshot in the system's default application without waiting for it.
func Open(snapshot Snapshot) error {
	exists, err := filesystem.API().Exists(snapshot.Path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("snapshot %s does not exist", snapshot.Name)
	}

	cmd, ok := opener(snapshot.Path)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return start(cmd)
}

func opener(path string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), true
	case constant.Darwin:
		return exec.Command("open", path), true
	case constant.Linux:
		return exec.Command("xdg-open", path), true
	case constant.Android:
		return exec.Command("termux-open", path), true
	default:
		return nil, false
	}
}
