/*
 * @module service/database/seed
 * @description Seeds the NDI taxonomy from the embedded dataset, the default
 *              admin user and the AI provider catalog. Idempotent: existing
 *              data is left untouched.
 * @architecture Data access layer - initial data
 * @stateFlow executed at startup after migration; reseed available via admin API
 * @rules The taxonomy is only written when the ndi_domains table is empty;
 *        every seeded question carries all six maturity levels
 * @dependencies ndi-assessment-service/service/models, gorm.io/gorm, golang.org/x/crypto/bcrypt
 */

package database

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"ndi-assessment-service/service/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:embed taxonomy_data.json
var taxonomyData []byte

type seedEvidence struct {
	EvidenceID        int     `json:"evidence_id"`
	TextEn            string  `json:"text_en"`
	TextAr            string  `json:"text_ar"`
	SpecificationCode *string `json:"specification_code,omitempty"`
	InheritsFromLevel *int    `json:"inherits_from_level,omitempty"`
}

type seedLevel struct {
	Level              int            `json:"level"`
	DescriptionEn      string         `json:"description_en"`
	DescriptionAr      string         `json:"description_ar"`
	AcceptanceEvidence []seedEvidence `json:"acceptance_evidence"`
}

type seedQuestion struct {
	DomainCode string      `json:"domain_code"`
	Code       string      `json:"code"`
	QuestionEn string      `json:"question_en"`
	QuestionAr string      `json:"question_ar"`
	SortOrder  int         `json:"sort_order"`
	Levels     []seedLevel `json:"levels"`
}

type seedDomain struct {
	Code          string `json:"code"`
	NameEn        string `json:"name_en"`
	NameAr        string `json:"name_ar"`
	DescriptionEn string `json:"description_en"`
	DescriptionAr string `json:"description_ar"`
	IsOEDomain    bool   `json:"is_oe_domain"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	SortOrder     int    `json:"sort_order"`
}

type seedFile struct {
	Domains   []seedDomain   `json:"domains"`
	Questions []seedQuestion `json:"questions"`
}

// Bilingual names of the six maturity levels, applied to every seeded level.
var levelNames = map[int][2]string{
	0: {"Absence of Capabilities", "غياب القدرات"},
	1: {"Establishing", "التأسيس"},
	2: {"Defined", "التحديد"},
	3: {"Activated", "التفعيل"},
	4: {"Managed", "الإدارة"},
	5: {"Pioneer", "الريادة"},
}

// InitializeData seeds taxonomy, default admin and AI providers. Safe to call
// on every startup.
func InitializeData(db *gorm.DB) error {
	if err := SeedTaxonomy(db, false); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	if err := seedDefaultAdmin(db); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if err := seedAIProviders(db); err != nil {
		return fmt.Errorf("seed ai providers: %w", err)
	}
	return nil
}

// SeedTaxonomy loads the embedded taxonomy dataset. With force set, existing
// taxonomy rows are dropped and rebuilt; otherwise a non-empty taxonomy is
// left alone.
func SeedTaxonomy(db *gorm.DB, force bool) error {
	var count int64
	if err := db.Model(&models.Domain{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 && !force {
		slog.Debug("taxonomy already seeded", "domains", count)
		return nil
	}

	var data seedFile
	if err := json.Unmarshal(taxonomyData, &data); err != nil {
		return fmt.Errorf("parse embedded taxonomy: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if force {
			for _, m := range []interface{}{
				&models.AcceptanceEvidence{},
				&models.MaturityLevel{},
				&models.Question{},
				&models.Specification{},
				&models.Domain{},
			} {
				if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
					return err
				}
			}
		}

		domainsByCode := make(map[string]*models.Domain, len(data.Domains))
		for _, d := range data.Domains {
			domain := &models.Domain{
				Code:          d.Code,
				NameEn:        d.NameEn,
				NameAr:        d.NameAr,
				DescriptionEn: d.DescriptionEn,
				DescriptionAr: d.DescriptionAr,
				IsOEDomain:    d.IsOEDomain,
				Icon:          d.Icon,
				Color:         d.Color,
				SortOrder:     d.SortOrder,
			}
			if err := tx.Create(domain).Error; err != nil {
				return err
			}
			domainsByCode[d.Code] = domain
		}

		for _, q := range data.Questions {
			domain, ok := domainsByCode[q.DomainCode]
			if !ok {
				return fmt.Errorf("question %s references unknown domain %s", q.Code, q.DomainCode)
			}

			question := &models.Question{
				DomainID:   domain.ID,
				Code:       q.Code,
				QuestionEn: q.QuestionEn,
				QuestionAr: q.QuestionAr,
				SortOrder:  q.SortOrder,
			}
			if err := tx.Create(question).Error; err != nil {
				return err
			}

			for _, l := range q.Levels {
				names := levelNames[l.Level]
				ml := &models.MaturityLevel{
					QuestionID:    question.ID,
					Level:         l.Level,
					NameEn:        names[0],
					NameAr:        names[1],
					DescriptionEn: l.DescriptionEn,
					DescriptionAr: l.DescriptionAr,
				}
				if err := tx.Create(ml).Error; err != nil {
					return err
				}

				for i, ev := range l.AcceptanceEvidence {
					item := &models.AcceptanceEvidence{
						MaturityLevelID:   ml.ID,
						EvidenceID:        ev.EvidenceID,
						TextEn:            ev.TextEn,
						TextAr:            ev.TextAr,
						SpecificationCode: ev.SpecificationCode,
						InheritsFromLevel: ev.InheritsFromLevel,
						SortOrder:         i + 1,
					}
					if err := tx.Create(item).Error; err != nil {
						return err
					}

					if ev.SpecificationCode != nil && *ev.SpecificationCode != "" {
						if err := upsertSpecification(tx, domain.ID, *ev.SpecificationCode, ev, l.Level); err != nil {
							return err
						}
					}
				}
			}

			if err := tx.Model(domain).
				Update("question_count", gorm.Expr("question_count + 1")).Error; err != nil {
				return err
			}
			domain.QuestionCount++
		}

		slog.Info("taxonomy seeded", "domains", len(data.Domains), "questions", len(data.Questions))
		return nil
	})
}

// upsertSpecification derives a specification row from a spec-tagged
// acceptance-evidence item. Duplicate codes keep the first occurrence.
func upsertSpecification(tx *gorm.DB, domainID, code string, ev seedEvidence, level int) error {
	var existing models.Specification
	err := tx.Where("code = ?", code).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	spec := &models.Specification{
		DomainID:      domainID,
		Code:          code,
		TitleEn:       ev.TextEn,
		TitleAr:       ev.TextAr,
		MaturityLevel: &level,
	}
	return tx.Create(spec).Error
}

// seedDefaultAdmin creates the bootstrap admin account when no users exist.
// Password comes from ADMIN_PASSWORD or falls back to a development default.
func seedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		slog.Warn("ADMIN_PASSWORD not set, using development default")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:          "admin@ndi.local",
		HashedPassword: string(hashed),
		NameEn:         "System Administrator",
		NameAr:         "مدير النظام",
		Role:           models.UserRoleAdmin,
		IsActive:       true,
		IsVerified:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	slog.Info("default admin user created", "email", admin.Email)
	return nil
}

// seedAIProviders ensures the provider catalog rows exist. Keys stay empty
// until configured through the settings API.
func seedAIProviders(db *gorm.DB) error {
	providers := []models.AIProviderConfig{
		{ID: "openai", NameEn: "OpenAI", NameAr: "أوبن إيه آي", ModelName: "gpt-4o"},
		{ID: "claude", NameEn: "Anthropic Claude", NameAr: "كلود", ModelName: "claude-3-5-sonnet"},
		{ID: "gemini", NameEn: "Google Gemini", NameAr: "جيميني", ModelName: "gemini-1.5-pro"},
		{ID: "azure", NameEn: "Azure OpenAI", NameAr: "أزور أوبن إيه آي", ModelName: "gpt-4o"},
	}

	for _, p := range providers {
		var existing models.AIProviderConfig
		err := db.Where("id = ?", p.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
