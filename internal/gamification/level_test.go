package gamification

import "testing"

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{10000, 11},
	}

	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.level {
			t.Errorf("LevelForXP(%d) = %d, want %d", c.xp, got, c.level)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestXPForLevel(t *testing.T) {
	cases := []struct {
		level int
		xp    int
	}{
		{1, 0},
		{2, 100},
		{3, 400},
		{4, 900},
	}

	for _, c := range cases {
		if got := XPForLevel(c.level); got != c.xp {
			t.Errorf("XPForLevel(%d) = %d, want %d", c.level, got, c.xp)
		}
		if LevelForXP(c.xp) != c.level {
			t.Errorf("LevelForXP(XPForLevel(%d)) = %d, want %d", c.level, LevelForXP(c.xp), c.level)
		}
	}
}
