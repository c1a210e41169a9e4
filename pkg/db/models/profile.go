package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// Profile is the display identity for an authenticated user. The id is the
// auth platform's subject.
type Profile struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FirstName       string              `gorm:"column:first_name;not null" json:"first_name"`
	LastName        string              `gorm:"column:last_name;not null" json:"last_name"`
	Email           *string             `gorm:"column:email" json:"email"`
	StudentID       *string             `gorm:"column:student_id" json:"student_id"`
	EmployeeID      *string             `gorm:"column:employee_id" json:"employee_id"`
	PhoneNumber     *string             `gorm:"column:phone_number" json:"phone_number"`
	UserType        enums.UserType      `gorm:"column:user_type;not null" json:"user_type"`
	AccountStatus   enums.AccountStatus `gorm:"column:account_status;not null" json:"account_status"`
	ProfileImageURL *string             `gorm:"column:profile_image_url" json:"profile_image_url"`
	Bio             *string             `gorm:"column:bio" json:"bio"`
	EmailVerified   bool                `gorm:"column:email_verified;not null" json:"email_verified"`
	LastLogin       *time.Time          `gorm:"column:last_login;type:timestamptz" json:"last_login"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// EmailOrEmpty returns the stored email or "".
func (p Profile) EmailOrEmpty() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}
