package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistrationStatus of an owner submission. Approved and Rejected are terminal.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "Pending"
	RegistrationStatusReviewed RegistrationStatus = "Reviewed"
	RegistrationStatusApproved RegistrationStatus = "Approved"
	RegistrationStatusRejected RegistrationStatus = "Rejected"
)

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusReviewed, RegistrationStatusApproved, RegistrationStatusRejected:
		return true
	}
	return false
}

func (s RegistrationStatus) IsTerminal() bool {
	return s == RegistrationStatusApproved || s == RegistrationStatusRejected
}

// BusinessRegistration is an owner-submitted request awaiting admin review.
type BusinessRegistration struct {
	ID       string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string  `gorm:"column:business_name;not null" json:"business_name"`
	Category string  `gorm:"column:business_reg_cat_type;not null" json:"business_reg_cat_type"`
	LGA      string  `gorm:"column:business_lga;not null" json:"business_lga"`
	Ward     *string `gorm:"column:business_ward" json:"business_ward"`
	Address  *string `gorm:"column:business_address;type:text" json:"business_address"`
	Phone    string  `gorm:"type:varchar(30);not null" json:"phone"`
	Email    *string `json:"email"`

	OwnerFirstName *string `json:"owner_first_name"`
	OwnerSurname   *string `json:"owner_surname"`

	Status RegistrationStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`

	// set when the registration is converted
	BusinessID *string `gorm:"type:varchar(36);index" json:"business_id,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BusinessRegistration) TableName() string {
	return "business_registrations"
}

func (r *BusinessRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = RegistrationStatusPending
	}
	return nil
}
