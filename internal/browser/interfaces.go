package browser

import (
	"context"
	"errors"

	"github.com/jwiersema/streakd/internal/cookies"
)

// ErrPageLoadTimeout reports a page that never reached a ready state within
// the configured timeout.
var ErrPageLoadTimeout = errors.New("page did not become ready in time")

// Session is the capability surface the run logic is written against. One
// Session owns one browser process; Close must be called exactly once and
// tears the whole process down. The real implementation drives Chrome over
// CDP, tests substitute a scripted fake.
type Session interface {
	// Navigate opens url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until selector matches a visible node or the wait
	// timeout elapses.
	WaitVisible(ctx context.Context, selector string) error
	// Click clicks the first visible node matching selector.
	Click(ctx context.Context, selector string) error
	// Count reports how many nodes currently match selector, without waiting.
	Count(ctx context.Context, selector string) (int, error)
	// Attribute reads an attribute of the first node matching selector; ok is
	// false when the attribute is absent.
	Attribute(ctx context.Context, selector, name string) (value string, ok bool, err error)
	// Text returns the visible text of the first node matching selector.
	Text(ctx context.Context, selector string) (string, error)
	// HTML returns the full current document markup.
	HTML(ctx context.Context) (string, error)
	// SetCookies injects cookies into the browser before navigation.
	SetCookies(ctx context.Context, list []cookies.Cookie) error
	// Screenshot captures the current page as a PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	Close()
}
