package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion indicates a version string could not be parsed.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a released version identifier.
//
// Semantic versions ("1.2.3-rc.1") are parsed as-is. Package registries that
// use dotted release numbers ("7.0.4.3", "2.0.0.beta1") are normalized: the
// first three numeric segments form the semantic core, further numeric
// segments are kept for comparison, and the first segment containing a letter
// starts the pre-release.
type Version struct {
	sv       *semver.Version
	segments []uint64
	raw      string
}

// Parse parses a version string.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrInvalidVersion)
	}

	if sv, err := semver.NewVersion(raw); err == nil {
		return Version{sv: sv, segments: releaseSegments(sv, raw), raw: raw}, nil
	}

	segments, pre, err := splitDotted(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return Version{}, fmt.Errorf("%w %q: %v", ErrInvalidVersion, raw, err)
	}

	core := make([]string, 3)
	for i := range core {
		var n uint64
		if i < len(segments) {
			n = segments[i]
		}
		core[i] = strconv.FormatUint(n, 10)
	}
	normalized := strings.Join(core, ".")
	if pre != "" {
		normalized += "-" + pre
	}

	sv, err := semver.NewVersion(normalized)
	if err != nil {
		return Version{}, fmt.Errorf("%w %q: %v", ErrInvalidVersion, raw, err)
	}

	return Version{sv: sv, segments: segments, raw: raw}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// splitDotted splits "7.0.4.3" or "2.0.0.beta1" into numeric release
// segments and a dot-joined pre-release.
func splitDotted(s string) ([]uint64, string, error) {
	parts := strings.Split(s, ".")
	var segments []uint64
	var pre []string

	for i, part := range parts {
		if part == "" {
			return nil, "", fmt.Errorf("empty segment")
		}
		if len(pre) > 0 {
			pre = append(pre, part)
			continue
		}

		digits := strings.IndexFunc(part, func(r rune) bool { return !unicode.IsDigit(r) })
		if digits == -1 {
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, "", err
			}
			segments = append(segments, n)
			continue
		}
		if i == 0 && digits == 0 {
			return nil, "", fmt.Errorf("no leading release number")
		}
		if digits > 0 {
			// "0rc1" contributes 0 to the release and "rc1" to the pre-release.
			n, err := strconv.ParseUint(part[:digits], 10, 64)
			if err != nil {
				return nil, "", err
			}
			segments = append(segments, n)
			part = part[digits:]
		}
		pre = append(pre, strings.TrimLeft(part, "-"))
	}

	var ids []string
	for _, p := range pre {
		ids = append(ids, prereleaseIdentifiers(p)...)
	}

	if len(segments) == 0 {
		return nil, "", fmt.Errorf("no release number")
	}
	return segments, strings.Join(ids, "."), nil
}

// prereleaseIdentifiers splits a gem pre-release segment at letter/digit
// boundaries, so "beta10" becomes "beta", "10" and sorts above "beta9".
// Numeric runs lose leading zeros, which semver identifiers may not carry.
func prereleaseIdentifiers(part string) []string {
	var ids []string
	start := 0
	for i := 1; i <= len(part); i++ {
		if i < len(part) && isDigit(part[i]) == isDigit(part[i-1]) {
			continue
		}
		id := part[start:i]
		if isDigit(id[0]) {
			id = strings.TrimLeft(id, "0")
			if id == "" {
				id = "0"
			}
		}
		ids = append(ids, id)
		start = i
	}
	return ids
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.raw
}

// Prerelease reports whether the version is a pre-release.
func (v Version) Prerelease() bool {
	return v.sv != nil && v.sv.Prerelease() != ""
}

// Segments returns the numeric release segments.
func (v Version) Segments() []uint64 {
	out := make([]uint64, len(v.segments))
	copy(out, v.segments)
	return out
}

// Compare returns -1, 0, or 1 when v is lower than, equal to, or higher than
// o. Release segments compare numerically, missing segments count as zero,
// and a pre-release sorts below its release.
func (v Version) Compare(o Version) int {
	n := max(len(v.segments), len(o.segments))
	for i := 0; i < n; i++ {
		a, b := segment(v.segments, i), segment(o.segments, i)
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}

	// Cores are equal, so semver precedence reduces to pre-release ordering.
	return v.sv.Compare(o.sv)
}

// LessThan reports whether v < o.
func (v Version) LessThan(o Version) bool {
	return v.Compare(o) < 0
}

// bump returns the exclusive upper bound of a pessimistic requirement: the
// second-to-last release segment incremented, or the only segment when there
// is just one.
func (v Version) bump() Version {
	segs := v.Segments()
	if len(segs) > 1 {
		segs = segs[:len(segs)-1]
	}
	segs[len(segs)-1]++

	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = strconv.FormatUint(s, 10)
	}
	return MustParse(strings.Join(parts, "."))
}

// releaseSegments keeps the number of release segments the author wrote, so
// "2.0" stays two segments for pessimistic bounds.
func releaseSegments(sv *semver.Version, raw string) []uint64 {
	core := strings.TrimPrefix(raw, "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	all := []uint64{sv.Major(), sv.Minor(), sv.Patch()}
	n := strings.Count(core, ".") + 1
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

func segment(segs []uint64, i int) uint64 {
	if i < len(segs) {
		return segs[i]
	}
	return 0
}
