package config

import (
	"fmt"

	gv "github.com/hashicorp/go-version"
)

// Version is the shell's release version.
const Version = "0.1.0"

// CheckRequiredVersion fails when constraint, a go-version constraint such as
// ">= 0.1, < 1.0", excludes Version. An empty constraint always passes.
func CheckRequiredVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	cs, err := gv.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("required_version: %w", err)
	}
	cur, err := gv.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("shell version: %w", err)
	}
	if !cs.Check(cur) {
		return fmt.Errorf("required_version %q does not allow MOshell %s", constraint, cur)
	}
	return nil
}
