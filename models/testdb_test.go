package models

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testDB opens a throwaway sqlite database with the full schema migrated,
// matching the server's gorm configuration.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "goshop.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Category{},
		&Notebook{},
		&Smartphone{},
		&Customer{},
		&Cart{},
		&CartProduct{},
	))
	return db
}

type fixture struct {
	Notebooks   Category
	Smartphones Category
	Notebook    Notebook
	Smartphone  Smartphone
}

// seedCatalog writes the two variant categories and one product per variant.
func seedCatalog(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		Notebooks:   Category{Name: "Notebooks", Slug: "notebooks"},
		Smartphones: Category{Name: "Smartphones", Slug: "smartphones"},
	}
	require.NoError(t, db.Create(&f.Notebooks).Error)
	require.NoError(t, db.Create(&f.Smartphones).Error)

	f.Notebook = Notebook{
		ProductBase: ProductBase{
			CategoryID: f.Notebooks.ID,
			Title:      "Aspire 5",
			Slug:       "aspire-5",
			Image:      "aspire-5.jpg",
			Price:      decimal.NewFromFloat(549.99),
		},
		Diagonal:      "15.6",
		DisplayType:   "IPS",
		ProcessorFreq: "2.4 GHz",
		RAM:           "8 GB",
		Video:         "Iris Xe",
		BatteryLife:   "9 hours",
	}
	require.NoError(t, db.Create(&f.Notebook).Error)

	f.Smartphone = Smartphone{
		ProductBase: ProductBase{
			CategoryID: f.Smartphones.ID,
			Title:      "Pixel 8",
			Slug:       "pixel-8",
			Image:      "pixel-8.jpg",
			Price:      decimal.NewFromFloat(699.00),
		},
		Diagonal:     "6.2",
		DisplayType:  "OLED",
		Resolution:   "2400x1080",
		AccumVolume:  "4575 mAh",
		RAM:          "8 GB",
		SD:           false,
		MainCamMP:    "50 MP",
		FrontalCamMP: "10.5 MP",
	}
	require.NoError(t, db.Create(&f.Smartphone).Error)

	return f
}
