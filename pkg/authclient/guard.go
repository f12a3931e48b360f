package authclient

import "strings"

type RouteClass int

const (
	RouteUnclassified RouteClass = iota
	RouteProtected
	RouteAnonymousOnly
)

// Guard partitions route paths: protected routes need a token and bounce
// to the login path without one, anonymous-only routes bounce an active
// session to the landing path, everything else passes through.
type Guard struct {
	LoginPath   string
	LandingPath string

	protected []string
	anonymous []string
}

func NewGuard(loginPath, landingPath string) *Guard {
	return &Guard{LoginPath: loginPath, LandingPath: landingPath}
}

func (g *Guard) Protect(prefixes ...string) *Guard {
	g.protected = append(g.protected, prefixes...)
	return g
}

func (g *Guard) AnonymousOnly(prefixes ...string) *Guard {
	g.anonymous = append(g.anonymous, prefixes...)
	return g
}

func (g *Guard) Classify(path string) RouteClass {
	// Anonymous prefixes are checked first so /login can live under a
	// protected subtree without being swallowed by it.
	for _, p := range g.anonymous {
		if matches(path, p) {
			return RouteAnonymousOnly
		}
	}
	for _, p := range g.protected {
		if matches(path, p) {
			return RouteProtected
		}
	}
	return RouteUnclassified
}

// Check returns the redirect target for the given navigation, or ok=true
// when the route may render as-is.
func (g *Guard) Check(path string, hasToken bool) (redirect string, ok bool) {
	switch g.Classify(path) {
	case RouteProtected:
		if !hasToken {
			return g.LoginPath, false
		}
	case RouteAnonymousOnly:
		if hasToken {
			return g.LandingPath, false
		}
	}
	return "", true
}

func matches(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/")
}
