/*
 * @module service/ai/heuristics
 * @description Rule-based gap analysis and recommendation generation. Always
 *              available: this is the fallback when no AI provider is
 *              configured, and the baseline the provider output is merged
 *              over.
 * @architecture Layered - domain logic
 * @rules Recommendations are deterministic for a given score snapshot;
 *        bilingual action text is authored here, not translated at runtime
 * @dependencies ndi-assessment-service/service/scoring
 */

package ai

import (
	"fmt"
	"sort"

	"ndi-assessment-service/service/scoring"
)

// Recommendation one improvement action for a domain.
type Recommendation struct {
	DomainCode   string  `json:"domain_code"`
	DomainName   string  `json:"domain_name"`
	CurrentLevel int     `json:"current_level"`
	TargetLevel  int     `json:"target_level"`
	Gap          float64 `json:"gap"`
	Priority     string  `json:"priority"` // high, medium, low
	Action       string  `json:"action"`
	Rationale    string  `json:"rationale"`
}

// GapAnalysis the full gap picture of an assessment.
type GapAnalysis struct {
	AssessmentID    string           `json:"assessment_id"`
	OverallScore    float64          `json:"overall_score"`
	TargetLevel     int              `json:"target_level"`
	OverallGap      float64          `json:"overall_gap"`
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source"` // heuristic or provider id
}

// Per-domain improvement actions, indexed by domain code then language.
// Domains without an entry fall back to the generic actions.
var domainActions = map[string]map[string]string{
	"DG": {
		"en": "Formalize the data governance charter, activate the data management office and run governance committees on a fixed cadence.",
		"ar": "اعتماد ميثاق حوكمة البيانات رسمياً وتفعيل مكتب إدارة البيانات وعقد لجان الحوكمة بوتيرة ثابتة.",
	},
	"DQ": {
		"en": "Define quality rules for priority datasets, measure them on a schedule and track remediation to closure.",
		"ar": "تحديد قواعد الجودة لمجموعات البيانات ذات الأولوية وقياسها وفق جدول زمني ومتابعة المعالجة حتى الإغلاق.",
	},
	"MCM": {
		"en": "Stand up the data catalog, assign metadata stewards and enforce catalog registration for new datasets.",
		"ar": "إنشاء فهرس البيانات وتعيين مشرفي البيانات الوصفية وإلزام تسجيل مجموعات البيانات الجديدة في الفهرس.",
	},
	"DC": {
		"en": "Classify priority datasets against the national framework and map protection controls to each level.",
		"ar": "تصنيف مجموعات البيانات ذات الأولوية وفق الإطار الوطني وربط ضوابط الحماية بكل مستوى.",
	},
	"PDP": {
		"en": "Complete the processing register, operationalize data subject request handling and schedule privacy impact assessments.",
		"ar": "استكمال سجل المعالجة وتفعيل معالجة طلبات أصحاب البيانات وجدولة تقييمات أثر الخصوصية.",
	},
	"OD": {
		"en": "Publish priority datasets on the open data platform with machine-readable formats and open licenses.",
		"ar": "نشر مجموعات البيانات ذات الأولوية على منصة البيانات المفتوحة بصيغ قابلة للقراءة الآلية وتراخيص مفتوحة.",
	},
	"DSI": {
		"en": "Document sharing agreements and expose priority datasets through governed integration channels.",
		"ar": "توثيق اتفاقيات المشاركة وإتاحة مجموعات البيانات ذات الأولوية عبر قنوات تكامل محوكمة.",
	},
}

var genericActions = map[string]string{
	"en": "Develop the domain policy, assign ownership and build a phased improvement roadmap toward the target level.",
	"ar": "إعداد سياسة المجال وتحديد المسؤوليات وبناء خارطة طريق تحسين مرحلية نحو المستوى المستهدف.",
}

// heuristicAnalysis derives recommendations from a maturity score snapshot.
func heuristicAnalysis(assessmentID string, maturity *scoring.MaturityScoreResult, targetLevel int, lang string) *GapAnalysis {
	if targetLevel < 1 || targetLevel > 5 {
		targetLevel = 3
	}
	if lang != "ar" {
		lang = "en"
	}

	var recs []Recommendation
	for _, ds := range maturity.DomainScores {
		if ds.AnsweredCount == 0 {
			continue
		}
		gap := float64(targetLevel) - ds.Score
		if gap <= 0 {
			continue
		}

		action, ok := domainActions[ds.DomainCode][lang]
		if !ok {
			action = genericActions[lang]
		}

		name := ds.DomainNameEn
		rationale := fmt.Sprintf("Current level %d (%.2f) is below the target level %d.", ds.Level, ds.Score, targetLevel)
		if lang == "ar" {
			name = ds.DomainNameAr
			rationale = fmt.Sprintf("المستوى الحالي %d (%.2f) أقل من المستوى المستهدف %d.", ds.Level, ds.Score, targetLevel)
		}

		recs = append(recs, Recommendation{
			DomainCode:   ds.DomainCode,
			DomainName:   name,
			CurrentLevel: ds.Level,
			TargetLevel:  targetLevel,
			Gap:          gap,
			Priority:     priorityForGap(gap),
			Action:       action,
			Rationale:    rationale,
		})
	}

	// Largest gaps first.
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Gap > recs[j].Gap })

	overallGap := float64(targetLevel) - maturity.OverallScore
	if overallGap < 0 {
		overallGap = 0
	}

	summary := fmt.Sprintf("Overall maturity is %.2f (%s). %d domain(s) fall below target level %d.",
		maturity.OverallScore, maturity.OverallLevelNameEn, len(recs), targetLevel)
	if lang == "ar" {
		summary = fmt.Sprintf("النضج العام %.2f (%s). %d من المجالات دون المستوى المستهدف %d.",
			maturity.OverallScore, maturity.OverallLevelNameAr, len(recs), targetLevel)
	}

	return &GapAnalysis{
		AssessmentID:    assessmentID,
		OverallScore:    maturity.OverallScore,
		TargetLevel:     targetLevel,
		OverallGap:      overallGap,
		Summary:         summary,
		Recommendations: recs,
		Source:          "heuristic",
	}
}

// priorityForGap maps a level gap to a priority band.
func priorityForGap(gap float64) string {
	switch {
	case gap >= 2:
		return "high"
	case gap >= 1:
		return "medium"
	default:
		return "low"
	}
}
