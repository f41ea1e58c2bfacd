// Package ipauth decides whether a caller's source address falls inside a
// user's configured allowlist.
package ipauth

import (
	"fmt"
	"net/netip"
)

// Matcher answers containment queries against a fixed set of CIDR ranges.
// It holds no other state and is safe for concurrent use.
type Matcher struct {
	prefixes []netip.Prefix
}

// NewMatcher parses each range as CIDR notation. One bad range fails the
// whole construction: allowlists are operator-authored, and a typo must
// surface loudly rather than silently shrink the allowed set.
func NewMatcher(ranges []string) (*Matcher, error) {
	prefixes := make([]netip.Prefix, 0, len(ranges))
	for _, r := range ranges {
		p, err := netip.ParsePrefix(r)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR range %q: %w", r, err)
		}
		prefixes = append(prefixes, p)
	}
	return &Matcher{prefixes: prefixes}, nil
}

// Contains reports whether addr falls inside any configured range. An addr
// that does not parse, or whose address family differs from a range's (an
// IPv4-mapped IPv6 caller against an IPv4 range), is non-containment, not an
// error.
func (m *Matcher) Contains(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	for _, p := range m.prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}
