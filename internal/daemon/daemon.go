package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jwiersema/streakd/internal/config"
	"github.com/jwiersema/streakd/internal/logger"
	"github.com/jwiersema/streakd/internal/notify"
	"github.com/jwiersema/streakd/internal/runner"
	"github.com/jwiersema/streakd/internal/schedule"
	"github.com/jwiersema/streakd/internal/util"
)

// Daemon waits for the configured time of day and executes one run per day.
// It spends its life in two states: waiting for the next scheduled time, or
// running a single vote cycle.
type Daemon struct {
	ctx    context.Context
	cancel context.CancelFunc
	sched  schedule.Daily
	cfg    config.ConfigProvider
	logger logger.LoggerInterface

	// run is swapped in tests to avoid launching a browser.
	run func(ctx context.Context) (runner.Outcome, error)
}

func NewDaemon(cfg config.ConfigProvider) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	loggerInstance, err := logger.NewLogger(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	sched, err := schedule.Parse(cfg.GetRunAt())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to parse run_at: %w", err)
	}

	r := runner.New(cfg, loggerInstance, notify.NewSMTPNotifier(cfg))

	return &Daemon{
		ctx:    ctx,
		cancel: cancel,
		sched:  sched,
		cfg:    cfg,
		logger: loggerInstance,
		run:    r.RunOnce,
	}, nil
}

// Start blocks until the daemon is stopped. With immediate_run set it
// performs a single run and returns nil regardless of how that run went.
func (d *Daemon) Start() error {
	if err := d.validateConfiguration(); err != nil {
		return err
	}

	if err := d.initializeServices(); err != nil {
		return err
	}
	defer d.logger.Close()
	defer d.cleanup()

	d.setupSignalHandling()
	d.logStartupInfo()

	if d.cfg.IsImmediateRun() {
		d.runNow()
		return nil
	}

	return d.runEventLoop()
}

func (d *Daemon) validateConfiguration() error {
	if d.cfg == nil {
		return fmt.Errorf("configuration not provided")
	}

	if d.isRunning() {
		return fmt.Errorf("daemon is already running")
	}

	return nil
}

func (d *Daemon) initializeServices() error {
	if err := d.writePidFile(); err != nil {
		return fmt.Errorf("failed to write PID file: %v", err)
	}

	return nil
}

func (d *Daemon) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Cancelling the root context aborts an in-flight run as well, so the
	// browser session still gets released before the process exits.
	go func() {
		sig := <-sigChan
		d.logger.Infof("Received signal: %v", sig)
		util.Cyan.Printf("\nReceived signal: %v\n", sig)
		d.cancel()
	}()
}

func (d *Daemon) logStartupInfo() {
	util.GreenBold.Printf("streakd daemon started, voting daily at %s\n", d.sched)
	util.Cyan.Printf("Communities: r/%s\n", strings.Join(d.cfg.GetSubreddits(), ", r/"))
	util.Cyan.Printf("Credential source: %s\n", d.cfg.GetCredentialSource())
	util.Cyan.Printf("PID file: %s\n", d.cfg.GetPidFile())
	util.Cyan.Printf("Log file: %s\n", d.cfg.GetLogPath())

	d.logger.Infof("Daemon started with PID %d", os.Getpid())
	d.logger.Infof("Voting daily at %s in r/%s", d.sched, strings.Join(d.cfg.GetSubreddits(), ", r/"))
}

func (d *Daemon) runEventLoop() error {
	for {
		next := d.sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		d.logger.Infof("Next run scheduled for %s", next.Format("2006-01-02 15:04:05"))
		util.Cyan.Printf("Next run: %s\n", next.Format("2006-01-02 15:04:05"))

		select {
		case <-d.ctx.Done():
			timer.Stop()
			d.logger.Info("Daemon shutting down")
			util.Cyan.Println("Daemon shutting down")
			return nil
		case <-timer.C:
			d.runNow()
		}
	}
}

// runNow executes one run. Failures are logged and reported but never stop
// the daemon; the next scheduled run still happens.
func (d *Daemon) runNow() {
	util.CyanBold.Printf("Starting run at %s\n", time.Now().Format("2006-01-02 15:04:05"))

	out, err := d.run(d.ctx)
	if err != nil {
		// The runner already logged and reported the failure.
		return
	}

	if out.Skipped {
		util.Magenta.Println("Streak already reached, skipping the vote")
		return
	}
	util.GreenBold.Printf("Run complete: voted in r/%s, held the vote for %s\n", out.Subreddit, out.Waited)
}

// Stop signals the daemon process recorded in the pid file.
func (d *Daemon) Stop() error {
	pid, err := d.readPid()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("daemon process %d not found: %v", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("daemon process %d is not responding: %v", pid, err)
	}

	util.Cyan.Printf("Sent stop signal to daemon (PID: %d)\n", pid)

	// An in-flight run has to release its browser session before the
	// process can exit, so give it a moment.
	for i := 0; i < 50; i++ {
		if !d.isRunning() {
			util.Green.Println("Daemon stopped successfully")
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon process %d did not exit", pid)
}

func (d *Daemon) isRunning() bool {
	pid, err := d.readPid()
	if err != nil {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Send signal 0 to check if process exists
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

func (d *Daemon) readPid() (int, error) {
	if d.cfg.GetPidFile() == "" {
		return 0, fmt.Errorf("no PID file configured")
	}

	pidData, err := os.ReadFile(d.cfg.GetPidFile())
	if err != nil {
		return 0, fmt.Errorf("daemon is not running")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
	if err != nil {
		return 0, fmt.Errorf("PID file %s is corrupt: %v", d.cfg.GetPidFile(), err)
	}

	return pid, nil
}

func (d *Daemon) writePidFile() error {
	pid := os.Getpid()
	return os.WriteFile(d.cfg.GetPidFile(), []byte(strconv.Itoa(pid)), 0644)
}

func (d *Daemon) cleanup() {
	if d.cfg.GetPidFile() != "" {
		os.Remove(d.cfg.GetPidFile())
	}
}

func (d *Daemon) Status() error {
	if !d.isRunning() {
		util.Red.Println("Daemon is not running")
		return fmt.Errorf("daemon is not running")
	}

	pid, _ := d.readPid()
	util.Green.Printf("Daemon is running (PID: %d)\n", pid)
	util.Cyan.Printf("Voting daily at %s in r/%s\n", d.sched, strings.Join(d.cfg.GetSubreddits(), ", r/"))
	util.Cyan.Printf("Next run: %s\n", d.sched.Next(time.Now()).Format("2006-01-02 15:04:05"))
	return nil
}
