package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jwiersema/streakd/internal/cookies"
)

const defaultWaitTimeout = 15 * time.Second

// chromedpSession drives one Chrome process through one tab. The tab context
// and the allocator are cancelled together on Close, which terminates the
// process and releases its profile directory.
type chromedpSession struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	pageTimeout time.Duration
	waitTimeout time.Duration
}

// withRunContext runs fn against the tab context bounded by timeout, while
// honoring cancellation of the caller's context.
func (s *chromedpSession) withRunContext(callCtx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if callCtx != nil {
		if done := callCtx.Done(); done != nil {
			go func() {
				select {
				case <-done:
					cancel()
				case <-runCtx.Done():
				}
			}()
		}
	}
	return fn(runCtx)
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	err := s.withRunContext(ctx, s.pageTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrPageLoadTimeout, url)
	}
	return err
}

func (s *chromedpSession) WaitVisible(ctx context.Context, selector string) error {
	err := s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out waiting for %q", selector)
	}
	return err
}

func (s *chromedpSession) Click(ctx context.Context, selector string) error {
	return s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, chromedp.Click(selector, chromedp.NodeVisible, chromedp.ByQuery))
	})
}

func (s *chromedpSession) Count(ctx context.Context, selector string) (int, error) {
	var n int
	err := s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx,
			chromedp.Evaluate(fmt.Sprintf("document.querySelectorAll(%q).length", selector), &n))
	})
	return n, err
}

func (s *chromedpSession) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var value string
	var ok bool
	err := s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx,
			chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery))
	})
	return value, ok, err
}

func (s *chromedpSession) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, chromedp.Text(selector, &text, chromedp.ByQuery))
	})
	return text, err
}

func (s *chromedpSession) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	})
	return html, err
}

func (s *chromedpSession) SetCookies(ctx context.Context, list []cookies.Cookie) error {
	params := make([]*network.CookieParam, 0, len(list))
	for _, c := range list {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: cdpSameSite(c.SameSite),
		}
		if p.Path == "" {
			p.Path = "/"
		}
		if !c.Expires.IsZero() {
			expires := cdp.TimeSinceEpoch(c.Expires)
			p.Expires = &expires
		}
		params = append(params, p)
	}
	return s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, chromedp.ActionFunc(func(actionCtx context.Context) error {
			return network.SetCookies(params).Do(actionCtx)
		}))
	})
}

func (s *chromedpSession) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.withRunContext(ctx, s.waitTimeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, chromedp.FullScreenshot(&buf, 90))
	})
	return buf, err
}

func (s *chromedpSession) Close() {
	s.cancel()
	s.allocCancel()
}

func cdpSameSite(s string) network.CookieSameSite {
	switch s {
	case "Lax":
		return network.CookieSameSiteLax
	case "Strict":
		return network.CookieSameSiteStrict
	case "None":
		return network.CookieSameSiteNone
	default:
		return ""
	}
}
