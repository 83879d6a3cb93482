package reddit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwiersema/streakd/internal/browser"
)

const fireSelector = `img[data-testid="streak-fire-image"]`
const streakDaysSelector = `span.current-streak`

// StreakStatus is a read-only view of the achievements page widget.
type StreakStatus struct {
	// Reached reports whether today's streak flame is already lit.
	Reached bool
	// Days is the current streak length; -1 when the widget hides the count.
	Days int
}

// CheckStreak opens the user's achievements page and reads the streak widget.
func CheckStreak(ctx context.Context, sess browser.Session, username string) (StreakStatus, error) {
	if err := sess.Navigate(ctx, AchievementsURL(username)); err != nil {
		return StreakStatus{}, err
	}
	if err := sess.WaitVisible(ctx, fireSelector); err != nil {
		return StreakStatus{}, fmt.Errorf("streak widget did not render: %w", err)
	}

	src, _, err := sess.Attribute(ctx, fireSelector, "src")
	if err != nil {
		return StreakStatus{}, fmt.Errorf("reading streak flame: %w", err)
	}
	alt, _, _ := sess.Attribute(ctx, fireSelector, "alt")

	status := StreakStatus{
		Reached: streakReached(src, alt),
		Days:    -1,
	}
	if text, err := sess.Text(ctx, streakDaysSelector); err == nil {
		if days, convErr := strconv.Atoi(strings.TrimSpace(text)); convErr == nil {
			status.Days = days
		}
	}
	return status, nil
}

// streakReached mirrors the widget's two signals: the flame image variant
// (fire.png vs fire-faded) and its alt text.
func streakReached(src, alt string) bool {
	alt = strings.ToLower(alt)
	if strings.Contains(src, "fire-faded") || strings.Contains(alt, "not been reached") {
		return false
	}
	return strings.Contains(src, "fire.png") || strings.Contains(alt, "has been reached")
}
