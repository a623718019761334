package importer

import (
	"bytes"
	"testing"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadBusinesses(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Business Name", "businessRegCatType", "business_lga", "Phone", "Status", "Latitude", "Longitude", "BVN"},
		{"Mama's Bakery", "Food", "Zaria", "08031234567", "Eligible", "11.08", "7.71", "22233344455"},
		{"Mama's Bakery", "Food", "Zaria", "08031234567", "Eligible", "", "", ""},
		{"Kafanchan Tailor", "Fashion", "Jema'a", "08030000000", "", "north", "8.3", ""},
		{"No Phone", "Food", "Zaria", "", "", "", "", ""},
		{"99", "Food", "Zaria", "0803", "", "", "", ""},
		{"Odd Status", "Food", "Zaria", "0804", "Archived", "", "", ""},
	})

	businesses, summary, err := ReadBusinesses(buf)
	require.NoError(t, err)
	require.Len(t, businesses, 2)

	bakery := businesses[0]
	assert.Equal(t, "Mama's Bakery", bakery.Name)
	assert.Equal(t, model.BusinessStatusEligible, bakery.Status)
	require.NotNil(t, bakery.Latitude)
	assert.Equal(t, 11.08, *bakery.Latitude)
	require.NotNil(t, bakery.BVN)
	assert.Equal(t, "22233344455", *bakery.BVN)
	assert.Empty(t, bakery.Slug)

	tailor := businesses[1]
	assert.Equal(t, model.BusinessStatusPending, tailor.Status)
	assert.Nil(t, tailor.Latitude)
	assert.Nil(t, tailor.Longitude)

	assert.Equal(t, Summary{TotalRows: 6, Valid: 2, Skipped: 4, Duplicates: 1, InvalidCoords: 1}, summary)
}

func TestReadBusinesses_MissingColumn(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Business Name", "Category", "Phone"},
		{"Shop", "Food", "0803"},
	})

	_, _, err := ReadBusinesses(buf)
	assert.ErrorContains(t, err, `"lga"`)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "businesslga", normalizeHeader(" Business LGA "))
	assert.Equal(t, "businesslga", normalizeHeader("business_lga"))
	assert.Equal(t, "businesslga", normalizeHeader("businessLGA"))
}
