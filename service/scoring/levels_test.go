/*
 * @module service/scoring/levels_test
 * @description Bucket-function boundary tests. The threshold table is policy
 *              and must be reproduced exactly, including the half-open
 *              interval behavior at every boundary.
 * @dependencies testing, testify
 */

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		level int
	}{
		{0.0, 0},
		{0.24, 0},
		{0.25, 1}, // boundary belongs to the higher bucket
		{1.0, 1},
		{1.24, 1},
		{1.25, 2},
		{2.0, 2},
		{2.49, 2},
		{2.50, 3},
		{3.0, 3},
		{3.99, 3},
		{4.00, 4}, // 4.0 is NOT level 3
		{4.5, 4},
		{4.74, 4},
		{4.75, 5},
		{4.99, 5},
		{5.00, 5},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelFromScore(tc.score), "score %.2f", tc.score)
	}
}

func TestLevelNames(t *testing.T) {
	assert.Equal(t, "Absence of Capabilities", LevelName(0, "en"))
	assert.Equal(t, "غياب القدرات", LevelName(0, "ar"))
	assert.Equal(t, "Establishing", LevelName(1, "en"))
	assert.Equal(t, "Defined", LevelName(2, "en"))
	assert.Equal(t, "Activated", LevelName(3, "en"))
	assert.Equal(t, "التفعيل", LevelName(3, "ar"))
	assert.Equal(t, "Managed", LevelName(4, "en"))
	assert.Equal(t, "Pioneer", LevelName(5, "en"))
	assert.Equal(t, "الريادة", LevelName(5, "ar"))

	assert.Equal(t, "Unknown", LevelName(9, "en"))
	assert.Equal(t, "غير معروف", LevelName(-1, "ar"))
}

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 100.0, percentage(5.0))
	assert.Equal(t, 60.0, percentage(3.0))
	assert.Equal(t, 66.7, round1(2.0/3.0*100))
	assert.Equal(t, 3.33, round2(10.0/3.0))
}
