package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jwiersema/streakd/internal/config"
	"github.com/jwiersema/streakd/internal/cookies"
)

// LaunchSpec describes one browser process to spawn.
type LaunchSpec struct {
	Headless           bool
	ChromePath         string
	ProfileDir         string
	PageTimeoutSeconds int
}

// Launch spawns a fresh automation-controlled Chrome and returns its Session.
// The returned Session owns the process; Close terminates it.
func Launch(ctx context.Context, spec LaunchSpec) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", spec.Headless),
		chromedp.Flag("disable-gpu", spec.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if spec.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(spec.ChromePath))
	}
	if spec.ProfileDir != "" {
		if err := os.MkdirAll(spec.ProfileDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating profile directory %s: %w", spec.ProfileDir, err)
		}
		opts = append(opts, chromedp.UserDataDir(spec.ProfileDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Warm-up confirms the process actually started before the run begins.
	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	pageTimeout := time.Duration(spec.PageTimeoutSeconds) * time.Second
	if pageTimeout <= 0 {
		pageTimeout = time.Duration(config.DefaultPageTimeoutSeconds) * time.Second
	}
	return &chromedpSession{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         tabCtx,
		cancel:      tabCancel,
		pageTimeout: pageTimeout,
		waitTimeout: defaultWaitTimeout,
	}, nil
}

// Acquire resolves the configured credential source and returns a Session
// already carrying its authentication state. On every failure path the
// browser process, if one was spawned, has been terminated again.
func Acquire(ctx context.Context, cfg config.ConfigProvider, domain string) (Session, error) {
	spec := LaunchSpec{
		Headless:           cfg.IsHeadless(),
		ChromePath:         cfg.GetChromePath(),
		PageTimeoutSeconds: cfg.GetPageTimeoutSeconds(),
	}

	switch cfg.GetCredentialSource() {
	case config.SourceAutomationProfile:
		spec.ProfileDir = cfg.GetProfileDir()
		return Launch(ctx, spec)

	case config.SourceBrowserProfile:
		jar, err := cookies.FromBrowser(cfg.GetBrowser(), domain)
		if err != nil {
			return nil, err
		}
		return launchWithCookies(ctx, spec, jar)

	case config.SourceCookieFile:
		jar, err := cookies.LoadFile(cfg.GetCookieFile())
		if err != nil {
			return nil, err
		}
		jar = cookies.ForDomain(jar, domain, time.Now())
		if len(jar) == 0 {
			return nil, fmt.Errorf("%w: %s holds no %s cookies", cookies.ErrNoCookies, cfg.GetCookieFile(), domain)
		}
		return launchWithCookies(ctx, spec, jar)

	default:
		// Config validation rejects unknown sources before a run can start.
		return nil, fmt.Errorf("unknown credential source %q", cfg.GetCredentialSource())
	}
}

func launchWithCookies(ctx context.Context, spec LaunchSpec, jar []cookies.Cookie) (Session, error) {
	sess, err := Launch(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := sess.SetCookies(ctx, jar); err != nil {
		sess.Close()
		return nil, fmt.Errorf("injecting cookies: %w", err)
	}
	return sess, nil
}
