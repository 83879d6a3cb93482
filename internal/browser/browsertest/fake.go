// Package browsertest provides a scripted Session double so run logic can be
// tested without a browser.
package browsertest

import (
	"context"
	"fmt"

	"github.com/jwiersema/streakd/internal/browser"
	"github.com/jwiersema/streakd/internal/cookies"
)

// Element models the nodes a selector resolves to on a fake page.
type Element struct {
	N     int
	Attrs map[string]string
	Text  string
}

// Page is one navigable document: its raw markup plus the elements that
// selectors should find on it.
type Page struct {
	HTML     string
	elements map[string]*Element
}

func NewPage(html string) *Page {
	return &Page{HTML: html, elements: make(map[string]*Element)}
}

// SetElement scripts what selector resolves to on this page.
func (p *Page) SetElement(selector string, el *Element) *Page {
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	if el.N == 0 {
		el.N = 1
	}
	p.elements[selector] = el
	return p
}

func (p *Page) Element(selector string) *Element {
	return p.elements[selector]
}

// Fake implements browser.Session against scripted pages. It records every
// navigation, click, cookie injection and close so tests can assert on them.
type Fake struct {
	pages  map[string]*Page
	cur    *Page
	CurURL string

	NavigateErrs map[string]error
	Navigations  []string
	Clicks       []string
	CookiesSet   [][]cookies.Cookie
	CloseCount   int

	// OnClick is invoked after a successful click so tests can flip page
	// state, e.g. an aria-pressed attribute.
	OnClick func(f *Fake, selector string)
}

var _ browser.Session = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		pages:        make(map[string]*Page),
		NavigateErrs: make(map[string]error),
	}
}

// AddPage scripts the document served when the fake navigates to url.
func (f *Fake) AddPage(url string, p *Page) *Page {
	f.pages[url] = p
	return p
}

// Current returns the page the fake is on.
func (f *Fake) Current() *Page {
	return f.cur
}

func (f *Fake) Navigate(ctx context.Context, url string) error {
	f.Navigations = append(f.Navigations, url)
	if err := f.NavigateErrs[url]; err != nil {
		return err
	}
	page, ok := f.pages[url]
	if !ok {
		page = NewPage("")
		f.pages[url] = page
	}
	f.cur = page
	f.CurURL = url
	return nil
}

func (f *Fake) WaitVisible(ctx context.Context, selector string) error {
	if el := f.lookup(selector); el != nil && el.N > 0 {
		return nil
	}
	return fmt.Errorf("fake: timed out waiting for %q", selector)
}

func (f *Fake) Click(ctx context.Context, selector string) error {
	el := f.lookup(selector)
	if el == nil || el.N == 0 {
		return fmt.Errorf("fake: no clickable node for %q", selector)
	}
	f.Clicks = append(f.Clicks, selector)
	if f.OnClick != nil {
		f.OnClick(f, selector)
	}
	return nil
}

func (f *Fake) Count(ctx context.Context, selector string) (int, error) {
	if el := f.lookup(selector); el != nil {
		return el.N, nil
	}
	return 0, nil
}

func (f *Fake) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	el := f.lookup(selector)
	if el == nil || el.N == 0 {
		return "", false, fmt.Errorf("fake: no node for %q", selector)
	}
	value, ok := el.Attrs[name]
	return value, ok, nil
}

func (f *Fake) Text(ctx context.Context, selector string) (string, error) {
	el := f.lookup(selector)
	if el == nil || el.N == 0 {
		return "", fmt.Errorf("fake: no node for %q", selector)
	}
	return el.Text, nil
}

func (f *Fake) HTML(ctx context.Context) (string, error) {
	if f.cur == nil {
		return "", fmt.Errorf("fake: not navigated anywhere")
	}
	return f.cur.HTML, nil
}

func (f *Fake) SetCookies(ctx context.Context, list []cookies.Cookie) error {
	f.CookiesSet = append(f.CookiesSet, list)
	return nil
}

func (f *Fake) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (f *Fake) Close() {
	f.CloseCount++
}

func (f *Fake) lookup(selector string) *Element {
	if f.cur == nil {
		return nil
	}
	return f.cur.Element(selector)
}
