/*
 * @module service/scoring/levels
 * @description Shared maturity-level utilities: the canonical score-to-level
 *              bucket function and the fixed bilingual level-name table.
 * @architecture Layered - domain logic, pure functions
 * @rules The bucket boundaries are deliberately non-uniform and must not be
 *        replaced by rounding; this is the single bucket function used by
 *        every score consumer
 */

package scoring

import "math"

// levelNames fixed 6-entry level naming table (EN, AR). Appears verbatim in
// user-facing reports.
var levelNames = map[int][2]string{
	0: {"Absence of Capabilities", "غياب القدرات"},
	1: {"Establishing", "التأسيس"},
	2: {"Defined", "التحديد"},
	3: {"Activated", "التفعيل"},
	4: {"Managed", "الإدارة"},
	5: {"Pioneer", "الريادة"},
}

// levelThresholds upper bounds (exclusive) of each level bucket. Scores at or
// above 4.75 map to level 5. Level 3 spans 1.5 points while level 4 spans only
// 0.75: staying "Activated" is an easier bar than reaching "Managed", and
// "Pioneer" requires a near-perfect score.
var levelThresholds = []struct {
	upper float64
	level int
}{
	{0.25, 0},
	{1.25, 1},
	{2.50, 2},
	{4.00, 3},
	{4.75, 4},
}

// LevelFromScore maps a continuous 0..5 score to a maturity level using the
// non-uniform bucket table. Boundary values belong to the higher bucket
// (half-open intervals): 0.25 -> 1, 4.00 -> 4, 4.75 -> 5.
func LevelFromScore(score float64) int {
	for _, t := range levelThresholds {
		if score < t.upper {
			return t.level
		}
	}
	return 5
}

// LevelName returns the display name of a level. lang is "en" or "ar";
// unknown levels degrade to a placeholder instead of failing.
func LevelName(level int, lang string) string {
	names, ok := levelNames[level]
	if !ok {
		if lang == "ar" {
			return "غير معروف"
		}
		return "Unknown"
	}
	if lang == "ar" {
		return names[1]
	}
	return names[0]
}

// round2 rounds a score for display (2 decimals).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds a percentage for display (1 decimal).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percentage converts a 0..5 score to a 0..100 percentage, 1 decimal.
func percentage(score float64) float64 {
	return round1(score / 5 * 100)
}
