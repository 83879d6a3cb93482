package reddit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jwiersema/streakd/internal/browser"
	"github.com/jwiersema/streakd/internal/config"
)

// TopN is how many leading posts a run may act on.
const TopN = 3

// Real posts are shreddit-post elements; ads render as shreddit-ad-post and
// never match this selector.
const postSelector = "shreddit-post"

// loginWallSelector matches the header login affordance shown to logged-out
// visitors.
const loginWallSelector = `#login-button, a[href*="/login"]`

// Post is one candidate entry of the top listing, alive for a single run.
type Post struct {
	ID        string
	Title     string
	Permalink string
}

// Locate opens the community's top-of-day listing and returns up to TopN
// candidate posts in listing order.
func Locate(ctx context.Context, sess browser.Session, subreddit string) ([]Post, error) {
	if err := sess.Navigate(ctx, ListingURL(subreddit)); err != nil {
		return nil, err
	}

	waitErr := sess.WaitVisible(ctx, postSelector)

	html, err := sess.HTML(ctx)
	if err != nil {
		if waitErr != nil {
			return nil, fmt.Errorf("%w: r/%s", ErrNoPosts, subreddit)
		}
		return nil, err
	}
	posts, err := ParseListing(html, TopN)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		if loggedOut(html) {
			return nil, fmt.Errorf("%w: r/%s served the login wall", ErrNotLoggedIn, subreddit)
		}
		return nil, fmt.Errorf("%w: r/%s", ErrNoPosts, subreddit)
	}
	return posts, nil
}

// ParseListing pulls the first limit real posts out of listing markup. Posts
// whose permalink cannot be recovered are skipped rather than guessed.
func ParseListing(html string, limit int) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing markup: %w", err)
	}

	var posts []Post
	doc.Find(postSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, promoted := s.Attr("promoted"); promoted {
			return true
		}
		post := Post{
			ID:        s.AttrOr("id", ""),
			Title:     s.AttrOr("post-title", ""),
			Permalink: s.AttrOr("permalink", ""),
		}
		if post.Permalink == "" {
			link := s.Find(`a[slot="full-post-link"]`).First()
			post.Permalink = link.AttrOr("href", "")
			if post.Title == "" {
				post.Title = strings.TrimSpace(link.Text())
			}
		}
		if post.Permalink == "" {
			return true
		}
		post.Permalink = absoluteURL(post.Permalink)
		posts = append(posts, post)
		return len(posts) < limit
	})
	return posts, nil
}

// Choose picks the index to act on. The random policy draws uniformly over
// the posts actually present, so listings shorter than TopN stay in range.
func Choose(posts []Post, policy string) int {
	if policy == config.PolicyFirst || len(posts) == 1 {
		return 0
	}
	return rand.IntN(len(posts))
}

func loggedOut(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(loginWallSelector).Length() > 0
}
