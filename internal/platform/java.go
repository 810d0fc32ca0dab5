package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// JavaVersion returns the major version reported by `<java> -version`.
func JavaVersion(ctx context.Context, runner CommandRunner, java string) (int, error) {
	out, err := runner.RunWithOutput(ctx, java, "-version")
	if err != nil {
		return 0, err
	}
	return parseJavaVersion(string(out))
}

// parseJavaVersion reads the quoted version from the first line, e.g.
// `openjdk version "21.0.2" 2024-01-16` or the legacy `"1.8.0_392"`.
func parseJavaVersion(out string) (int, error) {
	line := strings.Split(out, "\n")[0]
	parts := strings.Split(line, "\"")
	if len(parts) < 2 {
		return 0, fmt.Errorf("cannot parse java version: %s", line)
	}
	fields := strings.Split(parts[1], ".")
	if fields[0] == "1" && len(fields) > 1 {
		return strconv.Atoi(fields[1])
	}
	major := strings.SplitN(fields[0], "-", 2)[0]
	return strconv.Atoi(major)
}
