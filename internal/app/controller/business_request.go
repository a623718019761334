package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
)

var errInvalidDateOfBirth = errors.New("dob must be YYYY-MM-DD")

// BusinessRequest is the admin payload for creating, updating and converting.
// Absent fields are left untouched; an empty string clears an optional field.
type BusinessRequest struct {
	Name      *string  `json:"business_name"`
	Category  *string  `json:"business_reg_cat_type"`
	LGA       *string  `json:"business_lga"`
	Ward      *string  `json:"business_ward"`
	Address   *string  `json:"business_address"`
	Status    *string  `json:"status"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
	HeroURL *string `json:"owner_at_business_photo_url"`
	LogoURL *string `json:"logo_url"`

	OwnerFirstName *string `json:"owner_first_name"`
	OwnerSurname   *string `json:"owner_surname"`

	BVN                   *string `json:"bvn"`
	DateOfBirth           *string `json:"dob"`
	BankAccountNumber     *string `json:"bank_account_number"`
	BankName              *string `json:"bank_name"`
	OwnerPersonalPhotoURL *string `json:"owner_personal_photo_url"`
}

func parseDateOfBirth(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	return nil, errInvalidDateOfBirth
}

func (r BusinessRequest) toInput() (service.BusinessInput, error) {
	input := service.BusinessInput{
		Name:                  r.Name,
		Category:              r.Category,
		LGA:                   r.LGA,
		Ward:                  r.Ward,
		Address:               r.Address,
		Latitude:              r.Latitude,
		Longitude:             r.Longitude,
		Phone:                 r.Phone,
		Email:                 r.Email,
		Website:               r.Website,
		HeroURL:               r.HeroURL,
		LogoURL:               r.LogoURL,
		OwnerFirstName:        r.OwnerFirstName,
		OwnerSurname:          r.OwnerSurname,
		BVN:                   r.BVN,
		BankAccountNumber:     r.BankAccountNumber,
		BankName:              r.BankName,
		OwnerPersonalPhotoURL: r.OwnerPersonalPhotoURL,
	}

	if r.Status != nil && strings.TrimSpace(*r.Status) != "" {
		status := model.BusinessStatus(strings.TrimSpace(*r.Status))
		input.Status = &status
	}
	if r.DateOfBirth != nil {
		if strings.TrimSpace(*r.DateOfBirth) == "" {
			input.ClearDateOfBirth = true
		} else {
			dob, err := parseDateOfBirth(*r.DateOfBirth)
			if err != nil {
				return service.BusinessInput{}, err
			}
			input.DateOfBirth = dob
		}
	}
	return input, nil
}
