package cookies

import (
	"errors"
	"strings"
	"time"
)

// Cookie is the engine-agnostic shape every credential source produces.
// Expires is zero for session cookies.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite string
	Expires  time.Time
}

var (
	ErrFileNotFound  = errors.New("cookie file not found")
	ErrMalformed     = errors.New("malformed cookie file")
	ErrNoCookies     = errors.New("no cookies found for target domain")
	ErrProfileLocked = errors.New("browser profile is locked by a running browser")
)

// ForDomain keeps cookies belonging to domain or one of its subdomains and
// drops entries that expired before now. Session cookies are always kept.
func ForDomain(all []Cookie, domain string, now time.Time) []Cookie {
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	var kept []Cookie
	for _, c := range all {
		d := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		if d != domain && !strings.HasSuffix(d, "."+domain) {
			continue
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
