/*
 * @module service/models/user
 * @description Application users. Authentication itself lives outside this
 *              service; the model backs task assignment and audit columns.
 * @architecture Layered - entity models
 * @dependencies gorm.io/gorm, github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	UserRoleAdmin    = "admin"
	UserRoleAssessor = "assessor"
	UserRoleViewer   = "viewer"
)

// User an application user.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email          string     `json:"email" gorm:"not null;unique;size:255"`
	HashedPassword string     `json:"-" gorm:"not null;size:255"`
	NameEn         string     `json:"name_en" gorm:"size:255"`
	NameAr         string     `json:"name_ar" gorm:"size:255"`
	Role           string     `json:"role" gorm:"size:20;default:'assessor'"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsVerified     bool       `json:"is_verified" gorm:"default:false"`
	CreatedAt      time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
