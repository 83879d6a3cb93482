package reddit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jwiersema/streakd/internal/browser"
	"github.com/jwiersema/streakd/internal/logger"
)

// upvoteSelectors are tried in order on the post page; shreddit has shipped
// several generations of the vote control.
var upvoteSelectors = []string{
	`[data-post-click-location="vote"] button[upvote]`,
	`shreddit-post button[upvote]`,
	`button:has([icon-name="upvote"])`,
	`button[aria-label="upvote"]`,
}

// filledUpvoteSelector shows up once a vote registered, on controls that do
// not expose aria-pressed.
const filledUpvoteSelector = `button:has([icon-name="upvote-fill"])`

// voteReclicks bounds how many immediate extra clicks may chase a control
// that did not change state. This is not a retry policy; a still-stuck
// control fails the run.
const voteReclicks = 2

// Voter applies and then reverts one upvote on a post page.
type Voter struct {
	Session browser.Session
	Log     logger.LoggerInterface
	WaitMin int
	WaitMax int

	// Sleep is swapped in tests to avoid real waiting.
	Sleep func(ctx context.Context, d time.Duration)
}

// Toggle upvotes the post, waits the sampled interval, then removes the
// upvote again. It returns the wait it sampled. A post that was already
// upvoted before the run is left untouched.
func (v *Voter) Toggle(ctx context.Context, post Post) (time.Duration, error) {
	if err := v.Session.Navigate(ctx, post.Permalink); err != nil {
		return 0, err
	}

	sel, err := v.findUpvote(ctx)
	if err != nil {
		return 0, err
	}

	already, err := v.pressed(ctx, sel)
	if err != nil {
		return 0, fmt.Errorf("%w: reading vote state: %v", ErrVoteFailed, err)
	}
	if already {
		v.Log.Info("Post is already upvoted, leaving it untouched")
		return 0, nil
	}

	if err := v.setPressed(ctx, sel, true); err != nil {
		return 0, err
	}
	v.Log.Infof("Upvoted %s", post.Permalink)

	wait := SampleWait(v.WaitMin, v.WaitMax)
	v.Log.Infof("Waiting %s before removing the upvote", wait)
	v.sleep(ctx, wait)

	if err := v.setPressed(ctx, sel, false); err != nil {
		return wait, err
	}
	v.Log.Info("Removed the upvote")
	return wait, nil
}

// findUpvote resolves which selector generation this page renders. When no
// control shows up it distinguishes a logged-out page from broken markup.
func (v *Voter) findUpvote(ctx context.Context) (string, error) {
	probe := func() (string, bool) {
		for _, sel := range upvoteSelectors {
			if n, err := v.Session.Count(ctx, sel); err == nil && n > 0 {
				return sel, true
			}
		}
		return "", false
	}

	if sel, ok := probe(); ok {
		return sel, nil
	}
	// Slow pages get one bounded chance to render the control.
	if err := v.Session.WaitVisible(ctx, upvoteSelectors[0]); err == nil {
		return upvoteSelectors[0], nil
	}
	if sel, ok := probe(); ok {
		return sel, nil
	}

	if n, err := v.Session.Count(ctx, loginWallSelector); err == nil && n > 0 {
		return "", fmt.Errorf("%w: post page shows the login wall", ErrNotLoggedIn)
	}
	return "", fmt.Errorf("%w: no upvote control on post page", ErrVoteFailed)
}

// setPressed clicks until the control reports the wanted state, bounded by
// voteReclicks immediate re-clicks.
func (v *Voter) setPressed(ctx context.Context, sel string, want bool) error {
	state, err := v.pressed(ctx, sel)
	if err == nil && state == want {
		return nil
	}

	for attempt := 0; attempt <= voteReclicks; attempt++ {
		if attempt > 0 {
			v.Log.Debugf("Vote control still pressed=%v, re-clicking (%d/%d)", state, attempt, voteReclicks)
		}
		if err := v.Session.Click(ctx, sel); err != nil {
			return fmt.Errorf("%w: clicking %q: %v", ErrVoteFailed, sel, err)
		}
		state, err = v.pressed(ctx, sel)
		if err != nil {
			return fmt.Errorf("%w: reading vote state: %v", ErrVoteFailed, err)
		}
		if state == want {
			return nil
		}
	}
	return fmt.Errorf("%w: control did not reach pressed=%v after %d clicks", ErrVoteFailed, want, voteReclicks+1)
}

// pressed reads the control's voted state: aria-pressed where exposed, the
// filled icon variant otherwise.
func (v *Voter) pressed(ctx context.Context, sel string) (bool, error) {
	value, ok, err := v.Session.Attribute(ctx, sel, "aria-pressed")
	if err != nil {
		return false, err
	}
	if ok {
		return value == "true", nil
	}
	n, err := v.Session.Count(ctx, filledUpvoteSelector)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (v *Voter) sleep(ctx context.Context, d time.Duration) {
	if v.Sleep != nil {
		v.Sleep(ctx, d)
		return
	}
	sleepCtx(ctx, d)
}

// SampleWait draws the upvote-to-unvote delay uniformly from
// [minSeconds, maxSeconds], both ends included.
func SampleWait(minSeconds, maxSeconds int) time.Duration {
	if maxSeconds < minSeconds {
		maxSeconds = minSeconds
	}
	span := maxSeconds - minSeconds + 1
	return time.Duration(minSeconds+rand.IntN(span)) * time.Second
}

// sleepCtx waits for d but returns early on shutdown, so the deferred
// session teardown still runs promptly.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
