/*
 * @module service/models/evidence
 * @description Uploaded evidence file records / الشواهد, including extracted
 *              text and the advisory AI analysis blob.
 * @architecture Layered - entity models
 * @stateFlow analysis_status: pending -> processing -> completed | failed
 * @rules EvidenceID (claimed acceptance-evidence ordinal) is optional; the AI
 *        supports_level verdict is advisory and never feeds the binary
 *        compliance status
 * @dependencies gorm.io/gorm, github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evidence analysis statuses.
const (
	AnalysisStatusPending    = "pending"
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

// Evidence an uploaded document attached to an assessment response.
// EvidenceID is the acceptance-evidence ordinal (within the selected level)
// the file claims to satisfy; nil when the upload was not linked to one.
type Evidence struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ResponseID    string     `json:"response_id" gorm:"not null;type:varchar(36);index"`
	EvidenceID    *int       `json:"evidence_id,omitempty"`
	FileName      string     `json:"file_name" gorm:"not null;size:255"`
	FilePath      string     `json:"file_path" gorm:"not null;size:500"`
	FileType      string     `json:"file_type" gorm:"size:50"`
	FileSize      int64      `json:"file_size"`
	MimeType      string     `json:"mime_type" gorm:"size:100"`
	ExtractedText string     `json:"extracted_text,omitempty" gorm:"type:text"`
	AIAnalysis    JSONB      `json:"ai_analysis,omitempty" gorm:"type:jsonb"`
	AnalysisStatus string    `json:"analysis_status" gorm:"size:20;default:'pending'"`
	UploadedAt    time.Time  `json:"uploaded_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty"`

	Response *AssessmentResponse `json:"response,omitempty" gorm:"foreignKey:ResponseID"`
}

func (e *Evidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// SupportsLevel returns the advisory AI verdict (yes|partial|no) from the
// analysis blob, or empty when not analyzed.
func (e *Evidence) SupportsLevel() string {
	if e.AIAnalysis == nil {
		return ""
	}
	if v, ok := e.AIAnalysis["supports_level"].(string); ok {
		return v
	}
	return ""
}
