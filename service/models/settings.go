/*
 * @module service/models/settings
 * @description Application settings: single-organization profile, generic
 *              key/value settings and AI provider configurations. Secret
 *              values (API keys) are stored encrypted.
 * @architecture Layered - entity models
 * @stateFlow Mutated through the settings endpoints only
 * @rules At most one provider is default; secrets never leave the service
 *        decrypted except toward the provider API itself
 * @dependencies gorm.io/gorm, github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Setting categories.
const (
	SettingCategoryAIProvider   = "ai_provider"
	SettingCategoryStorage      = "storage"
	SettingCategoryNotification = "notification"
	SettingCategoryGeneral      = "general"
)

// OrganizationSettings the single organization profile / الجهة.
// The system models exactly one organization; the table holds one row.
type OrganizationSettings struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	NameEn        string    `json:"name_en" gorm:"not null;size:255"`
	NameAr        string    `json:"name_ar" gorm:"not null;size:255"`
	Sector        string    `json:"sector" gorm:"size:100"`
	DescriptionEn string    `json:"description_en" gorm:"size:1000"`
	DescriptionAr string    `json:"description_ar" gorm:"size:1000"`
	LogoURL       string    `json:"logo_url" gorm:"size:500"`
	Website       string    `json:"website" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Setting generic key/value application setting. When IsSecret is set the
// value column holds the encrypted form.
type Setting struct {
	Key           string    `json:"key" gorm:"primaryKey;size:100"`
	Value         string    `json:"value" gorm:"type:text"`
	Category      string    `json:"category" gorm:"size:30;default:'general'"`
	IsSecret      bool      `json:"is_secret" gorm:"default:false"`
	DescriptionEn string    `json:"description_en" gorm:"size:500"`
	DescriptionAr string    `json:"description_ar" gorm:"size:500"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// AIProviderConfig per-provider configuration / إعدادات مزود الذكاء الاصطناعي.
// ID is the provider slug: openai, claude, gemini, azure.
type AIProviderConfig struct {
	ID          string    `json:"id" gorm:"primaryKey;size:50"`
	NameEn      string    `json:"name_en" gorm:"not null;size:100"`
	NameAr      string    `json:"name_ar" gorm:"not null;size:100"`
	APIKey      string    `json:"-" gorm:"column:api_key;type:text"` // encrypted, never serialized
	APIEndpoint string    `json:"api_endpoint,omitempty" gorm:"size:500"`
	ModelName   string    `json:"model_name,omitempty" gorm:"size:100"`
	IsEnabled   bool      `json:"is_enabled" gorm:"default:false"`
	IsDefault   bool      `json:"is_default" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (o *OrganizationSettings) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
