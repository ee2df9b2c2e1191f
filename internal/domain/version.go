package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a strict semantic version: MAJOR.MINOR.PATCH with optional
// prerelease and build metadata. Release tags are "v" + String().
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([a-zA-Z0-9.]+))?(?:\+([a-zA-Z0-9.]+))?$`)

// ParseVersion parses a bare semantic version string such as "1.2.3" or
// "2.0.0-rc.1". A leading "v" is not accepted.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH with optional prerelease/build", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: m[4],
		Build:      m[5],
	}, nil
}

func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		b.WriteByte('-')
		b.WriteString(v.Prerelease)
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// Tag returns the git tag name for this version.
func (v Version) Tag() string {
	return "v" + v.String()
}

func (v Version) IsPrerelease() bool {
	return v.Prerelease != ""
}
