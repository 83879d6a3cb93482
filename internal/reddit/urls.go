package reddit

import (
	"fmt"
	"strings"
)

// Domain scopes cookie filtering and injection.
const Domain = "reddit.com"

const baseURL = "https://www.reddit.com"

// ListingURL is the top-of-day feed for a community.
func ListingURL(subreddit string) string {
	return fmt.Sprintf("%s/r/%s/top/?t=day", baseURL, subreddit)
}

// AchievementsURL is the profile page carrying the streak widget.
func AchievementsURL(username string) string {
	return fmt.Sprintf("%s/user/%s/achievements/category/3/", baseURL, username)
}

// UpvotedURL lists the account's upvoted posts.
func UpvotedURL(username string) string {
	return fmt.Sprintf("%s/user/%s/upvoted/", baseURL, username)
}

// absoluteURL resolves listing hrefs against the site root and strips query
// noise like click-tracking parameters.
func absoluteURL(href string) string {
	href = strings.SplitN(href, "?", 2)[0]
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}
