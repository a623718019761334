package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaduna-connect/directory-backend/pkg/util"
	"gorm.io/gorm"
)

// BusinessStatus is the review lifecycle of a published business
type BusinessStatus string

const (
	BusinessStatusPending   BusinessStatus = "Pending"
	BusinessStatusEligible  BusinessStatus = "Eligible"
	BusinessStatusDisbursed BusinessStatus = "Disbursed"
	BusinessStatusRejected  BusinessStatus = "Rejected"
)

// VerifiedStatuses are the only statuses the public read path may return.
var VerifiedStatuses = []BusinessStatus{BusinessStatusEligible, BusinessStatusDisbursed}

func (s BusinessStatus) IsVerified() bool {
	return s == BusinessStatusEligible || s == BusinessStatusDisbursed
}

func (s BusinessStatus) IsValid() bool {
	switch s {
	case BusinessStatusPending, BusinessStatusEligible, BusinessStatusDisbursed, BusinessStatusRejected:
		return true
	}
	return false
}

// Business is the full store record. Sensitive columns (BVN, date of birth,
// bank details, personal photo) live here and only here; the public path
// reads PublicBusinessRow instead.
type Business struct {
	ID       string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string         `gorm:"column:business_name;not null;index" json:"business_name"`
	Category string         `gorm:"column:business_reg_cat_type;not null;index" json:"business_reg_cat_type"`
	LGA      string         `gorm:"column:business_lga;not null;index" json:"business_lga"`
	Ward     *string        `gorm:"column:business_ward" json:"business_ward"`
	Address  *string        `gorm:"column:business_address;type:text" json:"business_address"`
	Slug     string         `gorm:"uniqueIndex;not null" json:"slug"`
	Status   BusinessStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Phone   string  `gorm:"type:varchar(30);not null" json:"phone"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
	HeroURL *string `gorm:"column:owner_at_business_photo_url" json:"owner_at_business_photo_url"`
	LogoURL *string `gorm:"column:logo_url" json:"logo_url"`

	OwnerFirstName *string `json:"owner_first_name"`
	OwnerSurname   *string `json:"owner_surname"`

	// Sensitive: never selected by the public path
	BVN                   *string    `gorm:"column:bvn;type:varchar(20)" json:"bvn"`
	DateOfBirth           *time.Time `gorm:"column:dob" json:"dob"`
	BankAccountNumber     *string    `gorm:"type:varchar(20)" json:"bank_account_number"`
	BankName              *string    `json:"bank_name"`
	OwnerPersonalPhotoURL *string    `gorm:"column:owner_personal_photo_url" json:"owner_personal_photo_url"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

// BeforeCreate assigns the id and a unique slug.
func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = BusinessStatusPending
	}
	if b.Slug == "" {
		slug, err := uniqueSlug(tx, util.GenerateSlug(b.Name, b.LGA), "")
		if err != nil {
			return err
		}
		b.Slug = slug
	}
	return nil
}

// BeforeUpdate regenerates the slug when a caller cleared it (name or LGA changed).
func (b *Business) BeforeUpdate(tx *gorm.DB) error {
	if b.Slug != "" {
		return nil
	}
	slug, err := uniqueSlug(tx, util.GenerateSlug(b.Name, b.LGA), b.ID)
	if err != nil {
		return err
	}
	b.Slug = slug
	return nil
}

// uniqueSlug appends -2, -3, ... until the slug is free (ignoring excludeID).
func uniqueSlug(tx *gorm.DB, base, excludeID string) (string, error) {
	slug := base
	for counter := 1; ; {
		var count int64
		query := tx.Session(&gorm.Session{NewDB: true}).Model(&Business{}).Where("slug = ?", slug)
		if excludeID != "" {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		counter++
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
