package core

import (
	_ "embed"
	"strings"

	version "github.com/hashicorp/go-version"
)

//go:embed version
var clientVersion string

func ClientVersion() string {
	return strings.TrimSpace(clientVersion)
}

func parseClientVersion() (*version.Version, error) {
	return version.NewVersion(ClientVersion())
}

// ClientSemver parses the embedded client version.
// Panics if the embedded file does not hold a valid semantic version, which is a build defect.
func ClientSemver() *version.Version {
	v, err := parseClientVersion()
	if err != nil {
		panic(err)
	}
	return v
}
