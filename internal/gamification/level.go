package gamification

import "math"

// LevelForXP maps cumulative XP to a level: level = 1 + floor(sqrt(xp/100)).
// 0-99 XP is level 1, 100-399 level 2, 400-899 level 3 and so on.
// Callers must not pass negative XP.
func LevelForXP(xp int) int {
	return 1 + int(math.Sqrt(float64(xp)/100))
}

// XPForLevel returns the minimum cumulative XP required to reach level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}
