package handler

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/pagevault/pagevault/constant"
)

// LoadError describes a handler unit that could not be loaded.
// Discovery collects these and keeps going.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load handler %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// CheckRequires validates a unit's version constraint against the running application.
// An empty constraint always passes.
func CheckRequires(constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	current := semver.MustParse(constant.Version)
	if ok, errs := c.Validate(current); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("requires %s: %w", constraint, errs[0])
		}
		return fmt.Errorf("requires %s, running %s", constraint, constant.Version)
	}

	return nil
}
