package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// Summary counts what happened to the data rows of a sheet.
type Summary struct {
	TotalRows     int
	Valid         int
	Skipped       int
	Duplicates    int
	InvalidCoords int
}

var (
	numbersOnly = regexp.MustCompile(`^[0-9]+$`)
	symbolsOnly = regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	headerClean = regexp.MustCompile(`[^a-z0-9]+`)
)

// normalizeHeader lets "Business LGA", "business_lga" and "businessLGA" all
// name the same column.
func normalizeHeader(h string) string {
	return headerClean.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "")
}

var columnAliases = map[string]string{
	"businessname":            "name",
	"name":                    "name",
	"businessregcattype":      "category",
	"category":                "category",
	"businesslga":             "lga",
	"lga":                     "lga",
	"businessward":            "ward",
	"ward":                    "ward",
	"businessaddress":         "address",
	"address":                 "address",
	"phone":                   "phone",
	"phonenumber":             "phone",
	"email":                   "email",
	"website":                 "website",
	"status":                  "status",
	"latitude":                "latitude",
	"longitude":               "longitude",
	"ownerfirstname":          "owner_first_name",
	"ownersurname":            "owner_surname",
	"owneratbusinessphotourl": "hero_url",
	"bvn":                     "bvn",
	"dob":                     "dob",
	"dateofbirth":             "dob",
	"bankaccountnumber":       "bank_account_number",
	"bankname":                "bank_name",
	"ownerpersonalphotourl":   "owner_personal_photo_url",
}

// isValidName rejects placeholder names such as "12" or "--".
func isValidName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}
	if numbersOnly.MatchString(name) || symbolsOnly.MatchString(name) {
		return false
	}
	return true
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// parseCoordinate returns nil for blank cells and an error for garbage.
func parseCoordinate(v string, limit float64) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < -limit || f > limit {
		return nil, fmt.Errorf("invalid coordinate %q", v)
	}
	return &f, nil
}

// ReadBusinesses parses the first sheet of an XLSX workbook. The first row is a
// header; columns are matched by name. Rows missing a name, category, LGA or
// phone are skipped, as are repeats of the same name, LGA and phone. Slugs are
// left to the model so they stay unique against rows already stored.
func ReadBusinesses(r io.Reader) ([]model.Business, Summary, error) {
	var summary Summary

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, summary, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, summary, fmt.Errorf("no data found in XLSX file")
	}

	index := map[string]int{}
	for i, header := range rows[0] {
		if field, ok := columnAliases[normalizeHeader(header)]; ok {
			if _, seen := index[field]; !seen {
				index[field] = i
			}
		}
	}
	for _, required := range []string{"name", "category", "lga", "phone"} {
		if _, ok := index[required]; !ok {
			return nil, summary, fmt.Errorf("missing required column %q", required)
		}
	}

	var businesses []model.Business
	seen := map[string]bool{}

	for _, row := range rows[1:] {
		summary.TotalRows++

		cell := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		name, category, lga, phone := cell("name"), cell("category"), cell("lga"), cell("phone")
		if name == "" || category == "" || lga == "" || phone == "" || !isValidName(name) {
			summary.Skipped++
			continue
		}

		status := model.BusinessStatus(cell("status"))
		if status == "" {
			status = model.BusinessStatusPending
		}
		if !status.IsValid() {
			summary.Skipped++
			continue
		}

		lat, errLat := parseCoordinate(cell("latitude"), 90)
		lng, errLng := parseCoordinate(cell("longitude"), 180)
		if errLat != nil || errLng != nil {
			summary.InvalidCoords++
			lat, lng = nil, nil
		}

		key := strings.ToLower(name + "|" + lga + "|" + phone)
		if seen[key] {
			summary.Duplicates++
			summary.Skipped++
			continue
		}
		seen[key] = true

		business := model.Business{
			Name:                  name,
			Category:              category,
			LGA:                   lga,
			Ward:                  optional(cell("ward")),
			Address:               optional(cell("address")),
			Status:                status,
			Latitude:              lat,
			Longitude:             lng,
			Phone:                 phone,
			Email:                 optional(cell("email")),
			Website:               optional(cell("website")),
			HeroURL:               optional(cell("hero_url")),
			OwnerFirstName:        optional(cell("owner_first_name")),
			OwnerSurname:          optional(cell("owner_surname")),
			BVN:                   optional(cell("bvn")),
			BankAccountNumber:     optional(cell("bank_account_number")),
			BankName:              optional(cell("bank_name")),
			OwnerPersonalPhotoURL: optional(cell("owner_personal_photo_url")),
		}
		if dob := cell("dob"); dob != "" {
			if t, err := time.Parse("2006-01-02", dob); err == nil {
				business.DateOfBirth = &t
			}
		}

		businesses = append(businesses, business)
	}

	summary.Valid = len(businesses)
	return businesses, summary, nil
}
