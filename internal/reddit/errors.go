package reddit

import "errors"

var (
	// ErrNoPosts reports a listing page that rendered zero real posts before
	// the wait timeout.
	ErrNoPosts = errors.New("no posts found in listing")
	// ErrNotLoggedIn reports a page served in logged-out state; voting is
	// impossible until the user signs the profile in again.
	ErrNotLoggedIn = errors.New("reddit session is not logged in")
	// ErrVoteFailed reports a vote control that never reflected the expected
	// state within the bounded re-click window.
	ErrVoteFailed = errors.New("vote action failed")
)
