package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwiersema/streakd/internal/browser"
	"github.com/jwiersema/streakd/internal/browser/browsertest"
	"github.com/jwiersema/streakd/internal/config"
	"github.com/jwiersema/streakd/internal/cookies"
	"github.com/jwiersema/streakd/internal/logger"
	"github.com/jwiersema/streakd/internal/reddit"
)

const (
	testSub       = "golang"
	testPermalink = "https://www.reddit.com/r/golang/comments/x/post/"
	voteSelector  = `[data-post-click-location="vote"] button[upvote]`
	fireSel       = `img[data-testid="streak-fire-image"]`
)

type stubConfig struct {
	subreddits    []string
	username      string
	policy        string
	waitMin       int
	waitMax       int
	testMode      bool
	screenshotDir string
}

func (s *stubConfig) GetSubreddits() []string      { return s.subreddits }
func (s *stubConfig) GetRedditUsername() string    { return s.username }
func (s *stubConfig) GetRunAt() string             { return "09:00" }
func (s *stubConfig) GetWaitSecondsMin() int       { return s.waitMin }
func (s *stubConfig) GetWaitSecondsMax() int       { return s.waitMax }
func (s *stubConfig) GetCredentialSource() string  { return config.SourceCookieFile }
func (s *stubConfig) GetBrowser() string           { return "chrome" }
func (s *stubConfig) GetCookieFile() string        { return "" }
func (s *stubConfig) GetProfileDir() string        { return "" }
func (s *stubConfig) IsImmediateRun() bool         { return false }
func (s *stubConfig) IsTestMode() bool             { return s.testMode }
func (s *stubConfig) GetSelectionPolicy() string   { return s.policy }
func (s *stubConfig) IsHeadless() bool             { return true }
func (s *stubConfig) GetChromePath() string        { return "" }
func (s *stubConfig) GetPageTimeoutSeconds() int   { return 5 }
func (s *stubConfig) GetScreenshotDir() string     { return s.screenshotDir }
func (s *stubConfig) GetNotify() config.Notify     { return config.Notify{} }
func (s *stubConfig) GetLogPath() string           { return "" }
func (s *stubConfig) GetPidFile() string           { return "" }

type stubNotifier struct {
	calls       int
	subject     string
	body        string
	attachments []string
}

func (s *stubNotifier) NotifyFailure(subject, body string, attachments ...string) error {
	s.calls++
	s.subject = subject
	s.body = body
	s.attachments = attachments
	return nil
}

func newTestRunner(stub *stubConfig, fake *browsertest.Fake, n *stubNotifier) *Runner {
	r := New(stub, logger.NewNop(), n)
	r.acquire = func(_ context.Context, _ config.ConfigProvider, _ string) (browser.Session, error) {
		return fake, nil
	}
	return r
}

func listingHTML(permalink string) string {
	return fmt.Sprintf(`<shreddit-post id="t3_x" post-title="Post" permalink=%q></shreddit-post>`, permalink)
}

// addVotablePost wires a post page whose control toggles on click, like a
// healthy vote button.
func addVotablePost(fake *browsertest.Fake) *browsertest.Page {
	post := browsertest.NewPage("<html><body></body></html>")
	post.SetElement(voteSelector, &browsertest.Element{
		Attrs: map[string]string{"aria-pressed": "false"},
	})
	fake.AddPage(testPermalink, post)
	fake.OnClick = func(_ *browsertest.Fake, _ string) {
		el := post.Element(voteSelector)
		if el.Attrs["aria-pressed"] == "true" {
			el.Attrs["aria-pressed"] = "false"
		} else {
			el.Attrs["aria-pressed"] = "true"
		}
	}
	return post
}

func addAchievements(fake *browsertest.Fake, username, src, alt string) *browsertest.Page {
	page := browsertest.NewPage("<html><body></body></html>")
	page.SetElement(fireSel, &browsertest.Element{
		Attrs: map[string]string{"src": src, "alt": alt},
	})
	fake.AddPage(reddit.AchievementsURL(username), page)
	return page
}

func TestRunOnceSuccess(t *testing.T) {
	fake := browsertest.New()
	fake.AddPage(reddit.ListingURL(testSub), browsertest.NewPage(listingHTML(testPermalink)))
	post := addVotablePost(fake)
	achievements := addAchievements(fake, "alice", "/assets/fire-faded.png", "Streak has not been reached")
	achievements.SetElement("span.current-streak", &browsertest.Element{Text: "41"})

	// The streak widget lights up once the upvote lands.
	fire := achievements.Element(fireSel)
	fake.OnClick = func(_ *browsertest.Fake, _ string) {
		el := post.Element(voteSelector)
		if el.Attrs["aria-pressed"] == "true" {
			el.Attrs["aria-pressed"] = "false"
		} else {
			el.Attrs["aria-pressed"] = "true"
			fire.Attrs["src"] = "/assets/fire.png"
			fire.Attrs["alt"] = "Streak has been reached"
		}
	}

	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, username: "alice", policy: config.PolicyFirst}
	r := newTestRunner(stub, fake, notifier)

	out, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Skipped)
	assert.Equal(t, testSub, out.Subreddit)
	assert.Equal(t, testPermalink, out.Post.Permalink)
	assert.True(t, out.Streak.Reached, "the post-run check sees the lit flame")
	assert.Equal(t, 41, out.Streak.Days)
	assert.Len(t, fake.Clicks, 2, "one click to vote, one to remove it")
	assert.Equal(t, 1, fake.CloseCount, "the session is released exactly once")
	assert.Zero(t, notifier.calls, "no failure report on success")
}

func TestRunOnceClosesSessionOnVoteFailure(t *testing.T) {
	fake := browsertest.New()
	fake.AddPage(reddit.ListingURL(testSub), browsertest.NewPage(listingHTML(testPermalink)))
	// The control never reports the vote, so every bounded click is spent.
	post := browsertest.NewPage("<html><body></body></html>")
	post.SetElement(voteSelector, &browsertest.Element{
		Attrs: map[string]string{"aria-pressed": "false"},
	})
	fake.AddPage(testPermalink, post)

	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, policy: config.PolicyFirst}
	r := newTestRunner(stub, fake, notifier)

	_, err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, reddit.ErrVoteFailed)
	assert.Equal(t, 1, fake.CloseCount, "failures still release the session exactly once")
	assert.Equal(t, 1, notifier.calls)
	assert.Contains(t, notifier.subject, "r/"+testSub)
}

func TestRunOnceRevertFailureFlagsStandingVote(t *testing.T) {
	fake := browsertest.New()
	fake.AddPage(reddit.ListingURL(testSub), browsertest.NewPage(listingHTML(testPermalink)))
	addAchievements(fake, "alice", "/assets/fire-faded.png", "Streak has not been reached")

	// The control latches: the upvote lands but no click removes it again.
	post := browsertest.NewPage("<html><body></body></html>")
	post.SetElement(voteSelector, &browsertest.Element{
		Attrs: map[string]string{"aria-pressed": "false"},
	})
	fake.AddPage(testPermalink, post)
	fake.OnClick = func(_ *browsertest.Fake, _ string) {
		post.Element(voteSelector).Attrs["aria-pressed"] = "true"
	}

	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, username: "alice", policy: config.PolicyFirst, waitMin: 1, waitMax: 1}
	r := newTestRunner(stub, fake, notifier)

	out, err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, reddit.ErrVoteFailed)
	assert.Greater(t, out.Waited, time.Duration(0), "the wait happened before the removal failed")
	assert.Equal(t, 1, notifier.calls)
	assert.Contains(t, notifier.body, "may still be applied")
	assert.Contains(t, notifier.body, reddit.UpvotedURL("alice"))
}

func TestRunOnceAcquireFailure(t *testing.T) {
	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, policy: config.PolicyFirst}
	r := New(stub, logger.NewNop(), notifier)
	r.acquire = func(_ context.Context, _ config.ConfigProvider, _ string) (browser.Session, error) {
		return nil, fmt.Errorf("loading cookie file: %w", cookies.ErrFileNotFound)
	}

	_, err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, cookies.ErrFileNotFound)
	assert.Equal(t, 1, notifier.calls)
	assert.Contains(t, notifier.body, "cookie_file", "the report carries the operator instruction")
	assert.Empty(t, notifier.attachments, "no screenshot without a session")
}

func TestRunOnceSkipsWhenStreakReached(t *testing.T) {
	fake := browsertest.New()
	addAchievements(fake, "alice", "/assets/fire.png", "Streak has been reached")

	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, username: "alice", policy: config.PolicyFirst}
	r := newTestRunner(stub, fake, notifier)

	out, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Empty(t, fake.Clicks, "no vote is placed on a reached streak")
	assert.Equal(t, []string{reddit.AchievementsURL("alice")}, fake.Navigations)
	assert.Equal(t, 1, fake.CloseCount)
	assert.Zero(t, notifier.calls)
}

func TestRunOnceTestModeVotesDespiteStreak(t *testing.T) {
	fake := browsertest.New()
	fake.AddPage(reddit.ListingURL(testSub), browsertest.NewPage(listingHTML(testPermalink)))
	addVotablePost(fake)
	addAchievements(fake, "alice", "/assets/fire.png", "Streak has been reached")

	stub := &stubConfig{subreddits: []string{testSub}, username: "alice", policy: config.PolicyFirst, testMode: true}
	r := newTestRunner(stub, fake, &stubNotifier{})

	out, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Skipped)
	assert.Len(t, fake.Clicks, 2)
}

func TestRunOnceNoPosts(t *testing.T) {
	fake := browsertest.New()
	fake.AddPage(reddit.ListingURL(testSub), browsertest.NewPage("<html><body></body></html>"))

	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, policy: config.PolicyFirst}
	r := newTestRunner(stub, fake, notifier)

	_, err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, reddit.ErrNoPosts)
	assert.Equal(t, 1, fake.CloseCount)
	assert.Equal(t, 1, notifier.calls)
}

func TestRunOnceWritesFailureScreenshot(t *testing.T) {
	fake := browsertest.New()
	fake.AddPage(reddit.ListingURL(testSub), browsertest.NewPage("<html><body></body></html>"))

	dir := t.TempDir()
	notifier := &stubNotifier{}
	stub := &stubConfig{subreddits: []string{testSub}, policy: config.PolicyFirst, screenshotDir: dir}
	r := newTestRunner(stub, fake, notifier)

	_, err := r.RunOnce(context.Background())
	require.Error(t, err)

	shots, globErr := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, globErr)
	require.Len(t, shots, 1)
	assert.Contains(t, shots[0], testSub)
	assert.Equal(t, []string{shots[0]}, notifier.attachments)
}

func TestCheckStreak(t *testing.T) {
	fake := browsertest.New()
	page := addAchievements(fake, "alice", "/assets/fire.png", "Streak has been reached")
	page.SetElement("span.current-streak", &browsertest.Element{Text: "7"})

	stub := &stubConfig{subreddits: []string{testSub}, username: "alice"}
	r := newTestRunner(stub, fake, &stubNotifier{})

	status, err := r.CheckStreak(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Reached)
	assert.Equal(t, 7, status.Days)
	assert.Equal(t, 1, fake.CloseCount)
}

func TestCheckStreakRequiresUsername(t *testing.T) {
	acquired := false
	stub := &stubConfig{subreddits: []string{testSub}}
	r := New(stub, logger.NewNop(), nil)
	r.acquire = func(_ context.Context, _ config.ConfigProvider, _ string) (browser.Session, error) {
		acquired = true
		return browsertest.New(), nil
	}

	_, err := r.CheckStreak(context.Background())
	require.Error(t, err)
	assert.False(t, acquired, "no session is opened without a username")
}

func TestPickSubreddit(t *testing.T) {
	r := New(&stubConfig{subreddits: []string{"golang"}}, logger.NewNop(), nil)
	assert.Equal(t, "golang", r.pickSubreddit())

	subs := []string{"golang", "programming", "linux"}
	r = New(&stubConfig{subreddits: subs}, logger.NewNop(), nil)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		pick := r.pickSubreddit()
		assert.Contains(t, subs, pick)
		seen[pick] = true
	}
	assert.Len(t, seen, len(subs), "every configured community gets picked eventually")
}
