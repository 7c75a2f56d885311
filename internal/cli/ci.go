package cli

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/kelseyhightower/envconfig"
)

// ciEnvironment is the subset of CI variables that affect artifact names.
// Drone is checked before the generic CI variables.
type ciEnvironment struct {
	Drone       string `envconfig:"DRONE"`
	DroneBranch string `envconfig:"DRONE_BRANCH"`
	CI          string `envconfig:"CI"`
	CIBranch    string `envconfig:"CI_BRANCH"`
}

func loadCIEnvironment() (ciEnvironment, error) {
	var env ciEnvironment
	if err := envconfig.Process("", &env); err != nil {
		return ciEnvironment{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read CI environment").
			WithCause(err)
	}
	return env, nil
}

func (e ciEnvironment) branchOverride() string {
	if enabled(e.Drone) && strings.TrimSpace(e.DroneBranch) != "" {
		return strings.TrimSpace(e.DroneBranch)
	}
	if enabled(e.CI) && strings.TrimSpace(e.CIBranch) != "" {
		return strings.TrimSpace(e.CIBranch)
	}
	return ""
}

func enabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}
