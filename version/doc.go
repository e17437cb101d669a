// Package version compares released versions against requirement sets.
//
// Core types:
//   - Version: A parsed release identifier with semantic precedence
//   - Requirement: An operator and a version, e.g. ">= 2.0.0" or "~> 1.4"
//   - Requirements: A set of requirements that must all hold
//
// Comparison is numeric per segment, so "10.0" sorts above "2.0", and a
// pre-release sorts below its release.
//
// Example usage:
//
//	reqs, err := version.ParseRequirements(">= 2.0.0", "< 3.0.0")
//	if err != nil {
//	    return err
//	}
//	if v, ok := reqs.Highest([]string{"1.9.0", "2.5.0", "3.0.0"}); ok {
//	    fmt.Println(v) // 2.5.0
//	}
package version
