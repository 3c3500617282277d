package core

import (
	"os"
	"os/exec"
	"strings"
	"time"
)

// tokenEnvVars are checked in order for a GitHub bearer credential.
var tokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

const ghTokenTimeout = 5 * time.Second

// ResolveToken returns a GitHub bearer token from the environment or,
// failing that, from the gh CLI's credential store. An empty string
// means unauthenticated requests, which are permitted but subject to
// stricter rate limits.
func ResolveToken() string {
	for _, env := range tokenEnvVars {
		if t := strings.TrimSpace(os.Getenv(env)); t != "" {
			return t
		}
	}

	if _, err := exec.LookPath("gh"); err != nil {
		return ""
	}
	cmd := exec.Command("gh", "auth", "token")
	out, err := runWithTimeout(cmd, ghTokenTimeout)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
