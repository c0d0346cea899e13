package gamification

import "time"

// streakLookbackDays bounds the backward scan. A streak longer than a year
// is counted as 365; history beyond that never changes the result.
const streakLookbackDays = 365

// Milestone is a streak threshold that grants a one-time XP bonus the day it
// is first crossed.
type Milestone struct {
	Days  int
	XP    int
	Label string
}

// StreakMilestones in ascending order of length.
var StreakMilestones = []Milestone{
	{Days: 3, XP: 25, Label: "3-day streak!"},
	{Days: 7, XP: 50, Label: "1 week streak!"},
	{Days: 14, XP: 75, Label: "2 week streak!"},
	{Days: 30, XP: 200, Label: "1 month streak!"},
	{Days: 60, XP: 300, Label: "2 month streak!"},
	{Days: 90, XP: 500, Label: "3 month streak!"},
	{Days: 180, XP: 750, Label: "6 month streak!"},
	{Days: 365, XP: 1500, Label: "1 year streak!"},
}

// DayKey collapses a timestamp to its calendar day ("2006-01-02") in the
// timestamp's own location. All streak math operates on day keys.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CurrentStreak counts consecutive calendar days with at least one
// completion, walking backward from the reference date. A missing reference
// day does not break the streak, the user may simply not have completed
// anything yet today. Any earlier gap terminates the count.
func CurrentStreak(completionDays map[string]struct{}, reference time.Time) int {
	if len(completionDays) == 0 {
		return 0
	}

	streak := 0
	for i := 0; i < streakLookbackDays; i++ {
		day := DayKey(reference.AddDate(0, 0, -i))
		if _, ok := completionDays[day]; ok {
			streak++
		} else if i > 0 {
			break
		}
		// i == 0 and absent: today is exempt, keep scanning from yesterday.
	}
	return streak
}

// StreakMilestoneBonus returns the bonus for a streak update that crossed a
// milestone threshold (oldStreak < days <= newStreak). Reaching a length
// beyond a threshold in one jump still fires the crossed milestone; an
// update that stays past a threshold never re-fires it. Returns (0, nil)
// when no threshold was crossed.
func StreakMilestoneBonus(oldStreak, newStreak int) (int, *string) {
	for _, m := range StreakMilestones {
		if oldStreak < m.Days && newStreak >= m.Days {
			label := m.Label
			return m.XP, &label
		}
	}
	return 0, nil
}
