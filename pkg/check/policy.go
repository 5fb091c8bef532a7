package check

import (
	"strings"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// Policy controls findings for links whose target lies outside the scope
// root.
type Policy string

// External link policies.
const (
	// PolicyValidate checks out-of-scope targets like any other link.
	PolicyValidate Policy = "validate"
	// PolicyWarn also adds a warning for every existing out-of-scope target.
	PolicyWarn Policy = "warn"
	// PolicyError adds an error for every out-of-scope target, existing or not.
	PolicyError Policy = "error"
	// PolicyIgnore skips out-of-scope targets entirely.
	PolicyIgnore Policy = "ignore"
)

// DefaultPolicy is the policy used when none is configured.
const DefaultPolicy = PolicyValidate

// Policies lists every valid policy.
var Policies = []Policy{PolicyValidate, PolicyWarn, PolicyError, PolicyIgnore}

// ParsePolicy parses a policy name, case-insensitively. An empty name yields
// DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPolicy, nil
	}
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPolicy,
		"unknown external link policy %q (must be one of: validate, warn, error, ignore)", s)
}
