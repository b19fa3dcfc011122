package version

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// version is overridden at build time with -ldflags "-X scribe-monitor/pkg/version.version=..."
	version = "0.0.0"
	// Matches the "1.2.3" in "1.2.3-rc1"
	versionRegex = regexp.MustCompile(`(\d+\.\d+\.\d+)`)
)

func GetVersion() string {
	return version
}

func GetNumericVersion() int {
	return ParseNumericVersion(version)
}

// ParseNumericVersion turns "1.2.3" into 1002003. Suffixes such as "-rc1"
// are ignored.
func ParseNumericVersion(semVer string) int {
	if matches := versionRegex.FindStringSubmatch(semVer); len(matches) > 1 {
		semVer = matches[1]
	}

	parts := strings.Split(semVer, ".")
	result := 0
	for _, part := range parts {
		num, _ := strconv.Atoi(part)
		result = result*1000 + num
	}
	return result
}
