/*
 * @module service/scoring/types
 * @description Result shapes exposed by the scoring engines and consumed by
 *              the dashboard, report and export layers.
 * @architecture Layered - domain logic, output contracts
 */

package scoring

// DomainScore per-domain maturity result.
type DomainScore struct {
	DomainCode     string  `json:"domain_code"`
	DomainNameEn   string  `json:"domain_name_en"`
	DomainNameAr   string  `json:"domain_name_ar"`
	Score          float64 `json:"score"`
	Level          int     `json:"level"`
	LevelNameEn    string  `json:"level_name_en"`
	LevelNameAr    string  `json:"level_name_ar"`
	AnsweredCount  int     `json:"answered_count"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     float64 `json:"percentage"`
}

// MaturityScoreResult overall maturity computation for one assessment.
type MaturityScoreResult struct {
	OverallScore       float64       `json:"overall_score"`
	OverallLevel       int           `json:"overall_level"`
	OverallLevelNameEn string        `json:"overall_level_name_en"`
	OverallLevelNameAr string        `json:"overall_level_name_ar"`
	OverallPercentage  float64       `json:"overall_percentage"`
	DomainScores       []DomainScore `json:"domain_scores"`
	AnsweredCount      int           `json:"answered_count"`
	TotalQuestions     int           `json:"total_questions"`
}

// SpecificationStatus per-specification compliance drill-down record.
// Status is strictly binary: compliant or non_compliant.
type SpecificationStatus struct {
	SpecificationCode string `json:"specification_code"`
	QuestionCode      string `json:"question_code"`
	EvidenceID        int    `json:"evidence_id"`
	Status            string `json:"status"`
	HasEvidence       bool   `json:"has_evidence"`
}

// ComplianceScoreResult aggregate compliance determination for one assessment.
// PartialCount is reserved for output compatibility and is always zero; the
// compliance check has no intermediate state (the AI "partial" verdict is a
// separate advisory classification).
type ComplianceScoreResult struct {
	CompliantCount       int                   `json:"compliant_count"`
	PartialCount         int                   `json:"partial_count"`
	NonCompliantCount    int                   `json:"non_compliant_count"`
	TotalSpecifications  int                   `json:"total_specifications"`
	CompliancePercentage float64               `json:"compliance_percentage"`
	IsCompliant          bool                  `json:"is_compliant"`
	SpecificationsDetail []SpecificationStatus `json:"specifications_detail,omitempty"`
}

// QuestionSpecStatus compact per-question specification status used inside
// QuestionDetail.
type QuestionSpecStatus struct {
	Code       string `json:"code"`
	EvidenceID int    `json:"evidence_id"`
	Uploaded   bool   `json:"uploaded"`
}

// QuestionDetail per-question drill-down row of the combined result.
type QuestionDetail struct {
	QuestionCode          string               `json:"question_code"`
	DomainCode            string               `json:"domain_code"`
	QuestionEn            string               `json:"question_en"`
	QuestionAr            string               `json:"question_ar"`
	SelectedLevel         int                  `json:"selected_level"`
	LevelNameEn           string               `json:"level_name_en"`
	LevelNameAr           string               `json:"level_name_ar"`
	RequiredEvidenceCount int                  `json:"required_evidence_count"`
	UploadedEvidenceCount int                  `json:"uploaded_evidence_count"`
	SpecificationsStatus  []QuestionSpecStatus `json:"specifications_status"`
	AllSpecsCompliant     bool                 `json:"all_specs_compliant"`
}

// CombinedAssessmentResult maturity and compliance packaged for report and
// dashboard consumers.
type CombinedAssessmentResult struct {
	Maturity        MaturityScoreResult   `json:"maturity"`
	Compliance      ComplianceScoreResult `json:"compliance"`
	QuestionDetails []QuestionDetail      `json:"question_details,omitempty"`
}
