package identity

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

const envUser = "SHELFMARK_USER"

var wellFormed = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// Resolve picks the acting user id: explicit flag, then environment,
// then the configured default.
func Resolve(flagValue, configDefault string) (string, error) {
	user := strings.TrimSpace(flagValue)
	if user == "" {
		user = strings.TrimSpace(os.Getenv(envUser))
	}
	if user == "" {
		user = strings.TrimSpace(configDefault)
	}
	if user == "" {
		return "", fmt.Errorf("no user configured: pass --user, set %s, or set default_user in config.yaml", envUser)
	}
	if !wellFormed.MatchString(user) {
		return "", fmt.Errorf("user id %q is not well formed", user)
	}
	return user, nil
}
