package capture

import (
	"fmt"
	"strings"

	"github.com/pagevault/pagevault/history"
)

// Result is the classified outcome of a single capture.
// It is one of Success, ToolError, VerificationFailure or ProcessSpawnError.
type Result interface {
	fmt.Stringer

	// Outcome is the history classification of the result.
	Outcome() history.Outcome

	sealed()
}

// Success means the tool exited with 0 and the snapshot exists at FinalPath.
type Success struct {
	FinalPath string
}

// ToolError means the tool exited with a non-zero code.
type ToolError struct {
	ExitCode int
	Stderr   string
	Stdout   string
}

// VerificationFailure means the tool reported success but no snapshot was written.
type VerificationFailure struct {
	ExpectedPath string
}

// ProcessSpawnError means the tool could not be started at all.
type ProcessSpawnError struct {
	Cause error
}

func (Success) sealed()             {}
func (ToolError) sealed()           {}
func (VerificationFailure) sealed() {}
func (ProcessSpawnError) sealed()   {}

func (Success) Outcome() history.Outcome             { return history.OutcomeSuccess }
func (ToolError) Outcome() history.Outcome           { return history.OutcomeToolError }
func (VerificationFailure) Outcome() history.Outcome { return history.OutcomeVerification }
func (ProcessSpawnError) Outcome() history.Outcome   { return history.OutcomeSpawnError }

func (s Success) String() string {
	return "saved " + s.FinalPath
}

// Output joins stderr and stdout the way they are shown to the user.
func (e ToolError) Output() string {
	return strings.TrimSpace(e.Stderr + "\n" + e.Stdout)
}

func (e ToolError) String() string {
	return fmt.Sprintf("capture tool exited with code %d:\n%s", e.ExitCode, e.Output())
}

func (v VerificationFailure) String() string {
	return "capture tool reported success but the file was not created: " + v.ExpectedPath
}

func (p ProcessSpawnError) String() string {
	return fmt.Sprintf("could not start the capture tool: %v", p.Cause)
}

// IsSuccess reports whether r is a Success.
func IsSuccess(r Result) bool {
	_, ok := r.(Success)
	return ok
}
