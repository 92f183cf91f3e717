package policy

import (
	"net"
	"strings"

	"github.com/tunegen/tunegen/internal/platform/errors"
)

// Policy gates the few operations that may touch the network. Runs are offline
// unless NetEnabled is set.
type Policy struct {
	NetEnabled   bool
	AllowDomains []string
}

// Offline is the default policy.
func Offline() Policy {
	return Policy{}
}

// Allows reports whether host may be contacted. Host may include a port.
func (p Policy) Allows(host string) bool {
	if !p.NetEnabled {
		return false
	}
	hostOnly := normalizeHost(host)
	if hostOnly == "" {
		return false
	}
	// An empty allowlist admits every host once networking is on.
	if len(p.AllowDomains) == 0 {
		return true
	}
	for _, allowed := range p.AllowDomains {
		a := strings.TrimSpace(strings.ToLower(allowed))
		if a == "" {
			continue
		}
		if hostOnly == a || strings.HasSuffix(hostOnly, "."+a) {
			return true
		}
	}
	return false
}

// RequireHost returns a policy error explaining why purpose cannot reach host.
func (p Policy) RequireHost(purpose string, host string) error {
	if p.Allows(host) {
		return nil
	}
	if !p.NetEnabled {
		return errors.NewPolicy(purpose + " needs network access to " + normalizeHost(host) + " (pass --net to enable)")
	}
	return errors.NewPolicy(purpose + ": domain not allowed by --allow-domain policy: " + normalizeHost(host))
}

func normalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return ""
	}
	if strings.Contains(h, ":") {
		if hostOnly, _, err := net.SplitHostPort(h); err == nil && hostOnly != "" {
			return strings.Trim(hostOnly, "[]")
		}
	}
	return strings.Trim(h, "[]")
}
