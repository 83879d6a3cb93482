package cookies

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lines carrying this prefix are http-only cookies, not comments.
const httpOnlyPrefix = "#HttpOnly_"

// netscapeFormat parses the classic cookies.txt layout: one cookie per line,
// seven tab-separated fields (domain, include-subdomains flag, path, secure,
// expiry as unix seconds, name, value). Exported values may themselves contain
// tabs, so everything after the sixth tab belongs to the value.
type netscapeFormat struct{}

func (netscapeFormat) Name() string { return "netscape" }

func (netscapeFormat) Sniff(data []byte) bool {
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, httpOnlyPrefix) {
			continue
		}
		return strings.Count(line, "\t") >= 6
	}
	return strings.Contains(string(data), "Netscape HTTP Cookie File")
}

func (netscapeFormat) Parse(data []byte) ([]Cookie, error) {
	var parsed []Cookie
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			line = strings.TrimPrefix(line, httpOnlyPrefix)
			httpOnly = true
		} else if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 7", ErrMalformed, i+1, len(parts))
		}
		expires, err := parseUnixSeconds(parts[4])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d expiry %q is not a unix timestamp", ErrMalformed, i+1, parts[4])
		}

		parsed = append(parsed, Cookie{
			Domain:   parts[0],
			Path:     parts[2],
			Secure:   strings.EqualFold(parts[3], "TRUE"),
			Expires:  expires,
			Name:     parts[5],
			Value:    strings.Join(parts[6:], "\t"),
			HTTPOnly: httpOnly,
		})
	}
	return parsed, nil
}

// parseUnixSeconds accepts integer or fractional timestamps; zero and negative
// values mean a session cookie.
func parseUnixSeconds(s string) (time.Time, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return time.Time{}, err
	}
	if secs <= 0 {
		return time.Time{}, nil
	}
	return time.Unix(int64(secs), 0), nil
}
