package cookies

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
)

// FromBrowser extracts the target domain's cookies from a locally installed
// browser's profile. Chrome-family stores keep the cookie database locked
// while the browser runs, so the browser must be closed first.
func FromBrowser(browser, domain string) ([]Cookie, error) {
	raw, err := loadBrowserCookies(browser, domain)
	if err != nil {
		if isLockErr(err) {
			return nil, fmt.Errorf("%w: close %s and try again", ErrProfileLocked, browser)
		}
		return nil, fmt.Errorf("reading %s cookies: %w", browser, err)
	}
	kept := ForDomain(raw, domain, time.Now())
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: log in to %s in %s first", ErrNoCookies, domain, browser)
	}
	return kept, nil
}

// loadBrowserCookies is a seam for tests; the real path goes through kooky
// and may prompt for keychain access on macOS.
var loadBrowserCookies = kookyLoad

func kookyLoad(browser, domain string) ([]Cookie, error) {
	var (
		out     []Cookie
		found   bool
		lastErr error
	)
	for _, store := range kooky.FindAllCookieStores() {
		if !strings.EqualFold(store.Browser(), browser) {
			continue
		}
		found = true
		raw, err := store.ReadCookies()
		store.Close()
		if err != nil {
			lastErr = err
			continue
		}
		for _, c := range raw {
			out = append(out, Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HTTPOnly: c.HttpOnly,
				SameSite: sameSiteName(c.SameSite),
				Expires:  c.Expires,
			})
		}
	}
	if !found {
		return nil, fmt.Errorf("no cookie store found for browser %q", browser)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}

func isLockErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "lock held")
}
