package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPRequiredForLevel(t *testing.T) {
	// floor(100 * 1.5^(level-1))
	assert.Equal(t, 100, XPRequiredForLevel(1))
	assert.Equal(t, 150, XPRequiredForLevel(2))
	assert.Equal(t, 225, XPRequiredForLevel(3))
	assert.Equal(t, 337, XPRequiredForLevel(4))
	assert.Equal(t, 506, XPRequiredForLevel(5))

	t.Run("Strictly increasing", func(t *testing.T) {
		prev := XPRequiredForLevel(1)
		for level := 2; level <= 40; level++ {
			cur := XPRequiredForLevel(level)
			require.Greater(t, cur, prev, "level %d", level)
			prev = cur
		}
	})

	t.Run("Levels below 1 clamp to level 1", func(t *testing.T) {
		assert.Equal(t, 100, XPRequiredForLevel(0))
		assert.Equal(t, 100, XPRequiredForLevel(-3))
	})
}

func TestLevelFromTotalXP(t *testing.T) {
	t.Run("Zero XP is level 1", func(t *testing.T) {
		info := LevelFromTotalXP(0)
		assert.Equal(t, 1, info.Level)
		assert.Equal(t, 0, info.XPIntoLevel)
		assert.Equal(t, 100, info.XPForNextLevel)
		assert.Equal(t, 0.0, info.ProgressPercent)
	})

	t.Run("Just below the boundary stays on the level", func(t *testing.T) {
		info := LevelFromTotalXP(99)
		assert.Equal(t, 1, info.Level)
		assert.Equal(t, 99, info.XPIntoLevel)
	})

	t.Run("Exactly 100 XP reaches level 2", func(t *testing.T) {
		info := LevelFromTotalXP(100)
		assert.Equal(t, 2, info.Level)
		assert.Equal(t, 0, info.XPIntoLevel)
		assert.Equal(t, 150, info.XPForNextLevel)
	})

	t.Run("Mid level progress", func(t *testing.T) {
		// 100 (level 1) + 75 into level 2
		info := LevelFromTotalXP(175)
		assert.Equal(t, 2, info.Level)
		assert.Equal(t, 75, info.XPIntoLevel)
		assert.InDelta(t, 50.0, info.ProgressPercent, 0.001)
	})

	t.Run("Left inverse of XPRequiredForLevel", func(t *testing.T) {
		// For each level, feeding back the cumulative requirement plus any
		// k < requirement must report exactly that level.
		accumulated := 0
		for level := 1; level <= 15; level++ {
			required := XPRequiredForLevel(level)
			for _, k := range []int{0, 1, required / 2, required - 1} {
				info := LevelFromTotalXP(accumulated + k)
				require.Equal(t, level, info.Level, "totalXP=%d", accumulated+k)
				require.Equal(t, k, info.XPIntoLevel)
			}
			accumulated += required
		}
	})

	t.Run("Pathological XP still terminates", func(t *testing.T) {
		info := LevelFromTotalXP(1 << 40)
		assert.Greater(t, info.Level, 10)
		assert.LessOrEqual(t, info.Level, maxLevel)
	})
}
