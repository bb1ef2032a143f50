/*
 * @module service/settings/service
 * @description Settings service: organization profile, generic key/value
 *              settings and AI provider configuration. Secret values are
 *              encrypted before they touch the database and masked on read.
 * @architecture Layered - business service
 * @stateFlow read/write through the settings endpoints; providers consumed by
 *            the AI service
 * @rules At most one AI provider is default at a time; API keys are never
 *        returned by any read operation
 * @dependencies ndi-assessment-service/service/models, gorm.io/gorm
 */

package settings

import (
	"errors"

	"ndi-assessment-service/service/models"

	"gorm.io/gorm"
)

// ErrProviderNotFound unknown AI provider slug.
var ErrProviderNotFound = errors.New("ai provider not found")

// Service settings business logic.
type Service struct {
	db  *gorm.DB
	key [32]byte
}

// NewService creates a settings service with the given encryption key.
func NewService(db *gorm.DB, key [32]byte) *Service {
	return &Service{db: db, key: key}
}

// OrganizationRequest partial update of the organization profile.
type OrganizationRequest struct {
	NameEn        *string `json:"name_en,omitempty"`
	NameAr        *string `json:"name_ar,omitempty"`
	Sector        *string `json:"sector,omitempty"`
	DescriptionEn *string `json:"description_en,omitempty"`
	DescriptionAr *string `json:"description_ar,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty"`
	Website       *string `json:"website,omitempty"`
}

// ProviderRequest partial update of an AI provider configuration.
type ProviderRequest struct {
	APIKey      *string `json:"api_key,omitempty"`
	APIEndpoint *string `json:"api_endpoint,omitempty"`
	ModelName   *string `json:"model_name,omitempty"`
	IsEnabled   *bool   `json:"is_enabled,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}

// ProviderInfo provider configuration as exposed over the API. The key itself
// never leaves the service; only its presence is reported.
type ProviderInfo struct {
	models.AIProviderConfig
	HasAPIKey bool `json:"has_api_key"`
}

// Organization returns the single organization row, creating an empty one on
// first access.
func (s *Service) Organization() (*models.OrganizationSettings, error) {
	var org models.OrganizationSettings
	err := s.db.First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		org = models.OrganizationSettings{NameEn: "Unnamed Entity", NameAr: "جهة غير مسماة"}
		if err := s.db.Create(&org).Error; err != nil {
			return nil, err
		}
		return &org, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// UpdateOrganization applies a partial profile update.
func (s *Service) UpdateOrganization(req *OrganizationRequest) (*models.OrganizationSettings, error) {
	org, err := s.Organization()
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&org.NameEn, req.NameEn)
	apply(&org.NameAr, req.NameAr)
	apply(&org.Sector, req.Sector)
	apply(&org.DescriptionEn, req.DescriptionEn)
	apply(&org.DescriptionAr, req.DescriptionAr)
	apply(&org.LogoURL, req.LogoURL)
	apply(&org.Website, req.Website)

	if err := s.db.Save(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// ListSettings returns settings, optionally filtered by category. Secret
// values are masked.
func (s *Service) ListSettings(category string) ([]models.Setting, error) {
	query := s.db.Model(&models.Setting{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var settings []models.Setting
	if err := query.Order("key").Find(&settings).Error; err != nil {
		return nil, err
	}
	for i := range settings {
		if settings[i].IsSecret {
			settings[i].Value = "********"
		}
	}
	return settings, nil
}

// GetSettingValue returns the plaintext value of a setting, decrypting
// secrets. Internal use only; the HTTP layer exposes masked values.
func (s *Service) GetSettingValue(key string) (string, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	if setting.IsSecret {
		return decrypt(s.key, setting.Value)
	}
	return setting.Value, nil
}

// SetSetting creates or replaces a setting, encrypting secret values.
func (s *Service) SetSetting(key, value, category string, isSecret bool) error {
	if isSecret {
		enc, err := encrypt(s.key, value)
		if err != nil {
			return err
		}
		value = enc
	}
	if category == "" {
		category = models.SettingCategoryGeneral
	}

	setting := models.Setting{Key: key, Value: value, Category: category, IsSecret: isSecret}
	return s.db.Save(&setting).Error
}

// DeleteSetting removes a setting.
func (s *Service) DeleteSetting(key string) error {
	return s.db.Delete(&models.Setting{}, "key = ?", key).Error
}

// ListProviders returns every AI provider configuration with keys masked.
func (s *Service) ListProviders() ([]ProviderInfo, error) {
	var providers []models.AIProviderConfig
	if err := s.db.Order("id").Find(&providers).Error; err != nil {
		return nil, err
	}

	infos := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		hasKey := p.APIKey != ""
		p.APIKey = ""
		infos = append(infos, ProviderInfo{AIProviderConfig: p, HasAPIKey: hasKey})
	}
	return infos, nil
}

// UpdateProvider applies a partial provider update. Setting is_default clears
// the flag on every other provider.
func (s *Service) UpdateProvider(id string, req *ProviderRequest) (*ProviderInfo, error) {
	var provider models.AIProviderConfig
	if err := s.db.First(&provider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	if req.APIKey != nil {
		if *req.APIKey == "" {
			provider.APIKey = ""
		} else {
			enc, err := encrypt(s.key, *req.APIKey)
			if err != nil {
				return nil, err
			}
			provider.APIKey = enc
		}
	}
	if req.APIEndpoint != nil {
		provider.APIEndpoint = *req.APIEndpoint
	}
	if req.ModelName != nil {
		provider.ModelName = *req.ModelName
	}
	if req.IsEnabled != nil {
		provider.IsEnabled = *req.IsEnabled
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := tx.Model(&models.AIProviderConfig{}).
				Where("id <> ?", provider.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			provider.IsDefault = true
		} else if req.IsDefault != nil {
			provider.IsDefault = false
		}
		return tx.Save(&provider).Error
	})
	if err != nil {
		return nil, err
	}

	hasKey := provider.APIKey != ""
	provider.APIKey = ""
	return &ProviderInfo{AIProviderConfig: provider, HasAPIKey: hasKey}, nil
}

// ProviderCredentials returns the decrypted key and connection details of a
// provider for outbound calls.
func (s *Service) ProviderCredentials(id string) (apiKey, endpoint, model string, err error) {
	var provider models.AIProviderConfig
	if err := s.db.First(&provider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", "", ErrProviderNotFound
		}
		return "", "", "", err
	}
	if provider.APIKey == "" {
		return "", provider.APIEndpoint, provider.ModelName, nil
	}
	key, err := decrypt(s.key, provider.APIKey)
	if err != nil {
		return "", "", "", err
	}
	return key, provider.APIEndpoint, provider.ModelName, nil
}

// DefaultProvider returns the enabled default provider, or the first enabled
// provider when none is marked default.
func (s *Service) DefaultProvider() (*models.AIProviderConfig, error) {
	var provider models.AIProviderConfig
	err := s.db.Where("is_enabled = ? AND is_default = ?", true, true).First(&provider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.Where("is_enabled = ?", true).Order("id").First(&provider).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}
