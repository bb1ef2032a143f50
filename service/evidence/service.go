/*
 * @module service/evidence/service
 * @description Evidence service: file upload and storage, text extraction and
 *              the advisory analysis pipeline over uploaded files.
 * @architecture Layered - business service
 * @stateFlow upload -> stored + pending -> analyze (processing) ->
 *            completed | failed; the scheduler drains pending rows
 * @rules Files land under the upload directory keyed by evidence row id; the
 *        analysis verdict is advisory and never blocks an upload
 * @dependencies ndi-assessment-service/service/models, ndi-assessment-service/service/ai, gorm.io/gorm
 */

package evidence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ndi-assessment-service/service/ai"
	"ndi-assessment-service/service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxFileSize upload ceiling in bytes.
const MaxFileSize = 20 << 20

// ErrNotFound evidence row does not exist.
var ErrNotFound = errors.New("evidence not found")

// ErrFileTooLarge upload exceeded MaxFileSize.
var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".xlsx": true,
	".xls":  true,
	".pptx": true,
	".txt":  true,
	".md":   true,
	".csv":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Service evidence business logic.
type Service struct {
	db        *gorm.DB
	uploadDir string
	ai        *ai.Service
}

// NewService creates an evidence service storing files under uploadDir.
func NewService(db *gorm.DB, uploadDir string, aiService *ai.Service) *Service {
	return &Service{db: db, uploadDir: uploadDir, ai: aiService}
}

// Upload stores one file for a response and records it. ordinal is the
// acceptance-evidence ordinal the file claims to satisfy, nil for unlinked
// uploads. Plain-text content is extracted inline; PDFs wait for analysis.
func (s *Service) Upload(responseID string, ordinal *int, fileName string, reader io.Reader) (*models.Evidence, error) {
	var response models.AssessmentResponse
	if err := s.db.First(&response, "id = ?", responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("response not found")
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("file type %q is not allowed", ext)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	storedPath := filepath.Join(s.uploadDir, id+ext)
	out, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(out, io.LimitReader(reader, MaxFileSize+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	if written > MaxFileSize {
		os.Remove(storedPath)
		return nil, ErrFileTooLarge
	}

	evidence := &models.Evidence{
		ID:             id,
		ResponseID:     responseID,
		EvidenceID:     ordinal,
		FileName:       fileName,
		FilePath:       storedPath,
		FileType:       strings.TrimPrefix(ext, "."),
		FileSize:       written,
		MimeType:       mimeTypeFor(ext),
		AnalysisStatus: models.AnalysisStatusPending,
		UploadedAt:     time.Now(),
	}

	if text, err := ExtractText(storedPath, evidence.FileType); err == nil && text != "" {
		evidence.ExtractedText = text
	}

	if err := s.db.Create(evidence).Error; err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	return evidence, nil
}

// Get returns one evidence row.
func (s *Service) Get(id string) (*models.Evidence, error) {
	var evidence models.Evidence
	if err := s.db.First(&evidence, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &evidence, nil
}

// ListByResponse returns every file uploaded for one response.
func (s *Service) ListByResponse(responseID string) ([]models.Evidence, error) {
	var evidence []models.Evidence
	err := s.db.Where("response_id = ?", responseID).
		Order("uploaded_at").
		Find(&evidence).Error
	return evidence, err
}

// Delete removes the row and the stored file.
func (s *Service) Delete(id string) error {
	evidence, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.Evidence{}, "id = ?", id).Error; err != nil {
		return err
	}
	if err := os.Remove(evidence.FilePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("stored file removal failed", "path", evidence.FilePath, "error", err)
	}
	return nil
}

// FilePath returns the stored location for download handlers.
func (s *Service) FilePath(id string) (path, name, mimeType string, err error) {
	evidence, err := s.Get(id)
	if err != nil {
		return "", "", "", err
	}
	return evidence.FilePath, evidence.FileName, evidence.MimeType, nil
}

// Analyze runs text extraction (when still missing) and the advisory AI
// review for one file.
func (s *Service) Analyze(ctx context.Context, id string) (*models.Evidence, error) {
	evidence, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(evidence).
		Update("analysis_status", models.AnalysisStatusProcessing).Error; err != nil {
		return nil, err
	}

	if evidence.ExtractedText == "" {
		text, err := ExtractText(evidence.FilePath, evidence.FileType)
		if err != nil {
			slog.Warn("text extraction failed", "evidence_id", id, "error", err)
		}
		if text != "" {
			if err := s.db.Model(evidence).Update("extracted_text", text).Error; err != nil {
				return nil, err
			}
			evidence.ExtractedText = text
		}
	}

	if _, err := s.ai.ReviewEvidence(ctx, id); err != nil {
		s.db.Model(evidence).Update("analysis_status", models.AnalysisStatusFailed)
		return nil, err
	}
	return s.Get(id)
}

// AnalyzePending drains up to limit pending files. Called by the scheduler;
// per-file failures are logged and do not stop the batch.
func (s *Service) AnalyzePending(ctx context.Context, limit int) int {
	var pending []models.Evidence
	err := s.db.Where("analysis_status = ?", models.AnalysisStatusPending).
		Order("uploaded_at").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		slog.Warn("pending evidence query failed", "error", err)
		return 0
	}

	analyzed := 0
	for _, ev := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.Analyze(ctx, ev.ID); err != nil {
			slog.Warn("evidence analysis failed", "evidence_id", ev.ID, "error", err)
			continue
		}
		analyzed++
	}
	return analyzed
}

func mimeTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".txt", ".md":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
