package toolchain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	versionPattern  = regexp.MustCompile(`\d+\.\d+\.\d+`)
	nonVersionChars = regexp.MustCompile(`[^\d.]`)
)

// Version is a major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the dotted form, e.g. "16.4.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether v is the zero triple returned for unparsable input.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Compare returns -1, 0 or 1 depending on whether v is lower than, equal to or
// higher than o, comparing major, then minor, then patch.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

func (v Version) semver() *semver.Version {
	return semver.New(uint64(v.Major), uint64(v.Minor), uint64(v.Patch), "", "")
}

// ParseVersion extracts the first dotted numeric triple from s.
// Input without such a triple yields the zero Version.
func ParseVersion(s string) Version {
	match := versionPattern.FindString(s)
	if match == "" {
		return Version{}
	}

	var parts [3]int
	for i, field := range strings.SplitN(match, ".", 3) {
		n, err := strconv.Atoi(field)
		if err != nil {
			// Only reachable on overflow.
			return Version{}
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}
}

// CheckVersion reports whether current satisfies the minimum required version.
// Every character of required that is not a digit or '.' is dropped first, so
// requirements such as ">=16.0.0" or "v2.0.0" are accepted. Equal versions
// satisfy the requirement.
func CheckVersion(current, required string) bool {
	cur := ParseVersion(current)
	req := ParseVersion(nonVersionChars.ReplaceAllString(required, ""))
	return cur.Compare(req) >= 0
}
