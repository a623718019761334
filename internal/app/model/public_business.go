package model

import "time"

// PublicBusinessColumns is the allow-list of columns the public read path may select.
var PublicBusinessColumns = []string{
	"id",
	"business_name",
	"business_reg_cat_type",
	"business_lga",
	"business_ward",
	"business_address",
	"owner_at_business_photo_url",
	"slug",
	"status",
	"phone",
	"email",
	"website",
	"latitude",
	"longitude",
	"created_at",
}

// PublicBusinessRow is a read-only projection of the businesses table. It has
// no sensitive fields, so nothing loaded into it can leak them.
type PublicBusinessRow struct {
	ID        string         `gorm:"column:id"`
	Name      string         `gorm:"column:business_name"`
	Category  string         `gorm:"column:business_reg_cat_type"`
	LGA       string         `gorm:"column:business_lga"`
	Ward      *string        `gorm:"column:business_ward"`
	Address   *string        `gorm:"column:business_address"`
	HeroURL   *string        `gorm:"column:owner_at_business_photo_url"`
	Slug      string         `gorm:"column:slug"`
	Status    BusinessStatus `gorm:"column:status"`
	Phone     string         `gorm:"column:phone"`
	Email     *string        `gorm:"column:email"`
	Website   *string        `gorm:"column:website"`
	Latitude  *float64       `gorm:"column:latitude"`
	Longitude *float64       `gorm:"column:longitude"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (PublicBusinessRow) TableName() string {
	return "businesses"
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PublicLocation struct {
	Address     string       `json:"address"`
	LGA         string       `json:"lga"`
	Ward        string       `json:"ward"`
	Coordinates *Coordinates `json:"coordinates"`
}

type PublicContact struct {
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
}

type PublicMedia struct {
	HeroImage string  `json:"hero_image"`
	Logo      *string `json:"logo"`
}

type PublicMetadata struct {
	IsVerified  bool   `json:"is_verified"`
	YearsActive int    `json:"years_active"`
	MemberSince string `json:"member_since"`
}

// PublicBusinessProfile is the only business shape served to anonymous visitors.
type PublicBusinessProfile struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Location    PublicLocation `json:"location"`
	Contact     PublicContact  `json:"contact"`
	Media       PublicMedia    `json:"media"`
	Metadata    PublicMetadata `json:"metadata"`
}
