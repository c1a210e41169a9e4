package enums

import (
	"fmt"
	"strings"
)

// UserType maps to profiles.user_type.
type UserType string

const (
	UserTypeStudent UserType = "STUDENT"
	UserTypeFaculty UserType = "FACULTY"
	UserTypeStaff   UserType = "STAFF"
	UserTypeAdmin   UserType = "ADMIN"
)

var validUserTypes = []UserType{UserTypeStudent, UserTypeFaculty, UserTypeStaff, UserTypeAdmin}

func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType accepts any casing.
func ParseUserType(value string) (UserType, error) {
	v := UserType(strings.ToUpper(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid user type %q", value)
}

// AccountStatus maps to profiles.account_status.
type AccountStatus string

const (
	AccountStatusActive              AccountStatus = "ACTIVE"
	AccountStatusSuspended           AccountStatus = "SUSPENDED"
	AccountStatusPendingVerification AccountStatus = "PENDING_VERIFICATION"
)

func (a AccountStatus) IsValid() bool {
	switch a {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusPendingVerification:
		return true
	}
	return false
}
