package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"

	"github.com/jwiersema/streakd/internal/browser"
	"github.com/jwiersema/streakd/internal/config"
	"github.com/jwiersema/streakd/internal/cookies"
	"github.com/jwiersema/streakd/internal/logger"
	"github.com/jwiersema/streakd/internal/notify"
	"github.com/jwiersema/streakd/internal/reddit"
	"github.com/jwiersema/streakd/internal/util"
)

// Outcome summarizes one completed run attempt for logging and notifications.
type Outcome struct {
	Subreddit string
	Post      reddit.Post
	Waited    time.Duration
	// Skipped is set when the streak was already reached and no vote was
	// placed.
	Skipped bool
	// Streak is the post-run widget state; Days is -1 when unknown.
	Streak reddit.StreakStatus
}

// Runner executes single streak runs against a fresh browser session.
type Runner struct {
	cfg      config.ConfigProvider
	log      logger.LoggerInterface
	notifier notify.Notifier

	// acquire is swapped in tests to avoid launching a real browser.
	acquire func(ctx context.Context, cfg config.ConfigProvider, domain string) (browser.Session, error)
}

func New(cfg config.ConfigProvider, log logger.LoggerInterface, notifier notify.Notifier) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		notifier: notifier,
		acquire:  browser.Acquire,
	}
}

// RunOnce performs one complete run: open a session, upvote one of the top
// posts, wait the sampled interval, remove the vote, close the session. The
// session is released exactly once on every path, including failures.
func (r *Runner) RunOnce(ctx context.Context) (Outcome, error) {
	subreddit := r.pickSubreddit()
	out := Outcome{Subreddit: subreddit, Streak: reddit.StreakStatus{Days: -1}}

	r.log.Infof("Starting run against r/%s", subreddit)

	sess, err := r.acquire(ctx, r.cfg, reddit.Domain)
	if err != nil {
		return out, r.fail(ctx, nil, out, fmt.Errorf("acquiring browser session: %w", err))
	}
	defer sess.Close()

	done, err := r.streakAlreadyDone(ctx, sess)
	if err != nil {
		return out, r.fail(ctx, sess, out, err)
	}
	if done {
		out.Skipped = true
		r.log.Info("Streak already reached today, skipping the vote")
		return out, nil
	}

	posts, err := reddit.Locate(ctx, sess, subreddit)
	if err != nil {
		return out, r.fail(ctx, sess, out, err)
	}
	pick := reddit.Choose(posts, r.cfg.GetSelectionPolicy())
	out.Post = posts[pick]
	r.log.Infof("Picked post %d of %d: %s", pick+1, len(posts), out.Post.Permalink)

	voter := &reddit.Voter{
		Session: sess,
		Log:     r.log,
		WaitMin: r.cfg.GetWaitSecondsMin(),
		WaitMax: r.cfg.GetWaitSecondsMax(),
	}
	out.Waited, err = voter.Toggle(ctx, out.Post)
	if err != nil {
		return out, r.fail(ctx, sess, out, err)
	}

	r.reportStreak(ctx, sess, &out)
	r.log.Infof("Run against r/%s complete", subreddit)
	return out, nil
}

// CheckStreak opens a session only to read the streak widget.
func (r *Runner) CheckStreak(ctx context.Context) (reddit.StreakStatus, error) {
	username := r.cfg.GetRedditUsername()
	if username == "" {
		return reddit.StreakStatus{}, fmt.Errorf("reddit_username is not configured")
	}

	sess, err := r.acquire(ctx, r.cfg, reddit.Domain)
	if err != nil {
		return reddit.StreakStatus{}, fmt.Errorf("acquiring browser session: %w", err)
	}
	defer sess.Close()

	return reddit.CheckStreak(ctx, sess, username)
}

func (r *Runner) pickSubreddit() string {
	subs := r.cfg.GetSubreddits()
	if len(subs) == 1 {
		return subs[0]
	}
	return subs[rand.IntN(len(subs))]
}

// streakAlreadyDone reports whether today's vote is already unnecessary. The
// check is advisory: when the widget cannot be read the run votes anyway.
// Test mode also votes regardless so the whole pipeline stays exercised.
func (r *Runner) streakAlreadyDone(ctx context.Context, sess browser.Session) (bool, error) {
	username := r.cfg.GetRedditUsername()
	if username == "" {
		return false, nil
	}

	status, err := reddit.CheckStreak(ctx, sess, username)
	if err != nil {
		r.log.Warnf("Streak pre-check failed, voting anyway: %v", err)
		return false, nil
	}
	if status.Days >= 0 {
		r.log.Infof("Current streak: %d days, reached today: %v", status.Days, status.Reached)
	}
	if !status.Reached {
		return false, nil
	}
	if r.cfg.IsTestMode() {
		r.log.Info("Streak already reached but test mode is on, voting anyway")
		return false, nil
	}
	return true, nil
}

// reportStreak re-reads the widget after the vote so the log records whether
// the run actually moved the streak.
func (r *Runner) reportStreak(ctx context.Context, sess browser.Session, out *Outcome) {
	username := r.cfg.GetRedditUsername()
	if username == "" {
		return
	}

	status, err := reddit.CheckStreak(ctx, sess, username)
	if err != nil {
		r.log.Warnf("Streak post-check failed: %v", err)
		return
	}
	out.Streak = status
	if status.Reached {
		r.log.Info("Streak reached for today")
	} else {
		r.log.Warn("Streak still not reached after voting")
	}
}

// fail classifies err, captures diagnostics and sends the failure report. It
// returns err unchanged so call sites stay one-liners.
func (r *Runner) fail(ctx context.Context, sess browser.Session, out Outcome, err error) error {
	r.log.Errorf("Run against r/%s failed: %v", out.Subreddit, err)
	util.LogError(classify(err), "completing streak run", err)
	if hint := hintFor(err); hint != "" {
		r.log.Info(hint)
		util.Yellow.Println(hint)
	}

	var shot string
	if sess != nil {
		shot = r.screenshot(ctx, sess, out.Subreddit)
	}
	r.notifyFailure(out, err, shot)
	return err
}

// screenshot saves the current page for the failure report and returns the
// file path, or "" when diagnostics are disabled or capture failed.
func (r *Runner) screenshot(ctx context.Context, sess browser.Session, subreddit string) string {
	dir := r.cfg.GetScreenshotDir()
	if dir == "" {
		return ""
	}

	buf, err := sess.Screenshot(ctx)
	if err != nil {
		r.log.Warnf("Could not capture failure screenshot: %v", err)
		return ""
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		r.log.Warnf("Could not create screenshot directory: %v", err)
		return ""
	}

	name := fmt.Sprintf("%s-%s.png", time.Now().Format("2006-01-02-150405"), slug.Make(subreddit))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		r.log.Warnf("Could not write failure screenshot: %v", err)
		return ""
	}
	r.log.Infof("Saved failure screenshot to %s", path)
	return path
}

func (r *Runner) notifyFailure(out Outcome, runErr error, attachments ...string) {
	if r.notifier == nil {
		return
	}

	subject := fmt.Sprintf("streakd: run against r/%s failed", out.Subreddit)
	body := fmt.Sprintf("The run at %s failed.\n\nSubreddit: r/%s\nError: %v\n",
		time.Now().Format(time.RFC1123), out.Subreddit, runErr)
	if out.Post.Permalink != "" {
		body += fmt.Sprintf("Post: %s\n", out.Post.Permalink)
	}
	// Waited > 0 with an error means the upvote went in but the removal did
	// not, so the vote may still be standing.
	if out.Waited > 0 {
		if username := r.cfg.GetRedditUsername(); username != "" {
			body += fmt.Sprintf("\nThe upvote may still be applied, check %s\n", reddit.UpvotedURL(username))
		}
	}
	if hint := hintFor(runErr); hint != "" {
		body += "\n" + hint + "\n"
	}

	var files []string
	for _, file := range attachments {
		if file != "" {
			files = append(files, file)
		}
	}
	if err := r.notifier.NotifyFailure(subject, body, files...); err != nil {
		r.log.Warnf("Could not send failure mail: %v", err)
	}
}

// classify maps a run failure onto the error contexts used across the CLI.
func classify(err error) util.ErrorContext {
	switch {
	case errors.Is(err, cookies.ErrProfileLocked),
		errors.Is(err, cookies.ErrNoCookies),
		errors.Is(err, cookies.ErrFileNotFound),
		errors.Is(err, cookies.ErrMalformed),
		errors.Is(err, reddit.ErrNotLoggedIn):
		return util.CookieError
	case errors.Is(err, reddit.ErrNoPosts),
		errors.Is(err, reddit.ErrVoteFailed):
		return util.VoteError
	default:
		return util.BrowserError
	}
}

// hintFor turns known failures into the instruction the operator needs.
func hintFor(err error) string {
	switch {
	case errors.Is(err, reddit.ErrNotLoggedIn):
		return "Reddit served the logged-out page. Refresh the exported cookies or log in again in the configured browser."
	case errors.Is(err, cookies.ErrProfileLocked):
		return "The browser profile is locked. Close the browser first or switch credential_source to cookie-file."
	case errors.Is(err, cookies.ErrNoCookies):
		return "No reddit.com cookies were found in the configured credential source. Log in to Reddit there first."
	case errors.Is(err, cookies.ErrFileNotFound):
		return "The configured cookie_file does not exist. Export cookies from a logged-in browser session first."
	case errors.Is(err, cookies.ErrMalformed):
		return "The cookie file could not be parsed. Export it again in Netscape or JSON format."
	}
	return ""
}
