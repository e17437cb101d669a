package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRequirement indicates a requirement string could not be parsed.
var ErrInvalidRequirement = errors.New("invalid version requirement")

// Operator is a version comparison operator.
type Operator string

// Supported operators.
const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="

	// OpPessimistic allows releases from the given version up to, but
	// excluding, the next bump of its second-to-last segment:
	// "~> 2.1" means ">= 2.1, < 3.0" and "~> 2.1.3" means ">= 2.1.3, < 2.2".
	OpPessimistic Operator = "~>"
)

var requirementPattern = regexp.MustCompile(`^\s*(~>|>=|<=|!=|=|>|<)?\s*(\S+)\s*$`)

// Requirement is a single operator and version pair.
type Requirement struct {
	Op      Operator
	Version Version
	raw     string
}

// ParseRequirement parses a requirement such as ">= 2.0.0" or "~> 1.4".
// A bare version means equality.
func ParseRequirement(s string) (Requirement, error) {
	m := requirementPattern.FindStringSubmatch(s)
	if m == nil {
		return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidRequirement, s)
	}

	op := Operator(m[1])
	if op == "" {
		op = OpEqual
	}

	v, err := Parse(m[2])
	if err != nil {
		return Requirement{}, fmt.Errorf("%w %q: %v", ErrInvalidRequirement, s, err)
	}

	return Requirement{Op: op, Version: v, raw: strings.TrimSpace(s)}, nil
}

// String returns the requirement as it was written.
func (r Requirement) String() string {
	if r.raw != "" {
		return r.raw
	}
	return fmt.Sprintf("%s %s", r.Op, r.Version)
}

// Allows reports whether v satisfies this single requirement.
func (r Requirement) Allows(v Version) bool {
	c := v.Compare(r.Version)
	switch r.Op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpPessimistic:
		return c >= 0 && v.LessThan(r.Version.bump())
	default:
		return false
	}
}

// Requirements is a set of requirements that must all hold.
type Requirements []Requirement

// ParseRequirements parses every requirement string.
func ParseRequirements(specs ...string) (Requirements, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no requirements given", ErrInvalidRequirement)
	}

	reqs := make(Requirements, 0, len(specs))
	for _, s := range specs {
		r, err := ParseRequirement(s)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// Allows reports whether v satisfies every requirement. Pre-releases are only
// allowed when at least one requirement names a pre-release.
func (rs Requirements) Allows(v Version) bool {
	if v.Prerelease() && !rs.mentionsPrerelease() {
		return false
	}
	for _, r := range rs {
		if !r.Allows(v) {
			return false
		}
	}
	return true
}

// Highest returns the highest of the candidate version strings that
// satisfies every requirement. Candidates that do not parse are skipped.
func (rs Requirements) Highest(candidates []string) (Version, bool) {
	var best Version
	found := false
	for _, c := range candidates {
		v, err := Parse(c)
		if err != nil {
			continue
		}
		if !rs.Allows(v) {
			continue
		}
		if !found || best.LessThan(v) {
			best = v
			found = true
		}
	}
	return best, found
}

// String joins the requirements with ", ".
func (rs Requirements) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func (rs Requirements) mentionsPrerelease() bool {
	for _, r := range rs {
		if r.Version.Prerelease() {
			return true
		}
	}
	return false
}
