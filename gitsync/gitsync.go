// Package gitsync pushes the archive directory to its git remote.
package gitsync

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/log"
)

// Step is one git command of a sync.
type Step struct {
	Name  string
	Args  []string
	Fatal bool
}

// Steps returns the git commands run by a sync, in order.
// A failed commit is not fatal: there may be nothing to commit.
func Steps(message string) []Step {
	return []Step{
		{Name: "check", Args: []string{"rev-parse", "--is-inside-work-tree"}, Fatal: true},
		{Name: "add", Args: []string{"add", "."}, Fatal: true},
		{Name: "commit", Args: []string{"commit", "-m", message}, Fatal: false},
		{Name: "pull", Args: []string{"pull", "--rebase"}, Fatal: true},
		{Name: "push", Args: []string{"push"}, Fatal: true},
	}
}

// StepError reports the first fatal step that failed.
type StepError struct {
	Step      string
	ExitCode  int
	Output    string
	SpawnFail error
}

func (e *StepError) Error() string {
	if e.SpawnFail != nil {
		return fmt.Sprintf("git %s: %v", e.Step, e.SpawnFail)
	}
	return fmt.Sprintf("git %s exited with code %d:\n%s", e.Step, e.ExitCode, e.Output)
}

func (e *StepError) Unwrap() error {
	return e.SpawnFail
}

// Syncer runs the git commands.
type Syncer struct {
	Runner capture.Runner
	// OnStep is called before each step runs.
	OnStep func(Step)
}

// New returns a Syncer running git as a child process.
func New() *Syncer {
	return &Syncer{Runner: capture.ExecRunner{}}
}

// Sync stages, commits, rebases onto and pushes to the remote of the repository at dir.
// It stops at the first fatal failure.
func (s *Syncer) Sync(ctx context.Context, dir, message string) error {
	for _, step := range Steps(message) {
		if s.OnStep != nil {
			s.OnStep(step)
		}

		argv := append([]string{"git", "-C", dir}, step.Args...)
		execution, err := s.Runner.Run(ctx, argv)
		if err != nil {
			return &StepError{Step: step.Name, SpawnFail: err}
		}

		if execution.ExitCode == 0 {
			log.Infof("git %s done", step.Name)
			continue
		}

		output := strings.TrimSpace(execution.Stderr + "\n" + execution.Stdout)
		if !step.Fatal {
			log.Warnf("git %s exited with code %d, continuing: %s", step.Name, execution.ExitCode, output)
			continue
		}

		return &StepError{Step: step.Name, ExitCode: execution.ExitCode, Output: output}
	}

	return nil
}

// MessageData is available to the commit message template.
type MessageData struct {
	Time  string
	Count int
}

// Message renders the commit message template.
func Message(tmpl string, at time.Time, count int) (string, error) {
	t, err := template.New("message").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse commit message: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, MessageData{Time: at.Format(time.DateTime), Count: count}); err != nil {
		return "", fmt.Errorf("render commit message: %w", err)
	}
	return b.String(), nil
}
