package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/artemzaharov/goshop/app/admin"
	"github.com/artemzaharov/goshop/app/cart"
	"github.com/artemzaharov/goshop/app/catalog"
	"github.com/artemzaharov/goshop/app/customer"
	"github.com/artemzaharov/goshop/models"
)

func main() {
	_ = godotenv.Load()

	initLogger()
	defer func() { _ = zap.L().Sync() }()

	db := initDatabase()

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Notebook{},
		&models.Smartphone{},
		&models.Customer{},
		&models.Cart{},
		&models.CartProduct{},
	); err != nil {
		zap.S().Fatalf("auto-migrate failed: %v", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	zap.S().Infof("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		zap.S().Fatalf("server stopped: %v", err)
	}
}

func registerRoutes(mux *http.ServeMux, db *gorm.DB) {
	categories := models.NewCategoriesRepository(db)
	products := models.NewProductsRepository(db)
	carts := models.NewCartsRepository(db)
	customers := models.NewCustomersRepository(db)

	catalogHandler := catalog.NewCatalogHandler(categories, products)
	mux.HandleFunc("GET /{$}", catalogHandler.HandleHome)
	mux.HandleFunc("GET /category/{slug}/{$}", catalogHandler.HandleCategory)
	mux.HandleFunc("GET /products/{kind}/{slug}/{$}", catalogHandler.HandleProduct)

	cartHandler := cart.NewCartHandler(carts, customers)
	mux.HandleFunc("GET /cart", cartHandler.HandleGet)
	mux.HandleFunc("POST /cart/items", cartHandler.HandleAddItem)
	mux.HandleFunc("PUT /cart/items/{kind}/{id}", cartHandler.HandleSetQuantity)
	mux.HandleFunc("DELETE /cart/items/{kind}/{id}", cartHandler.HandleRemoveItem)

	customerHandler := customer.NewCustomerHandler(customers)
	mux.HandleFunc("GET /profile", customerHandler.HandleGetProfile)
	mux.HandleFunc("PUT /profile", customerHandler.HandleUpdateProfile)

	apiKey := os.Getenv("ADMIN_API_KEY")
	adminHandler := admin.NewAdminHandler(categories, products)
	mux.HandleFunc("POST /admin/categories", admin.RequireKey(apiKey, adminHandler.HandleCreateCategory))
	mux.HandleFunc("POST /admin/notebooks", admin.RequireKey(apiKey, adminHandler.HandleCreateNotebook))
	mux.HandleFunc("PUT /admin/notebooks/{id}", admin.RequireKey(apiKey, adminHandler.HandleUpdateNotebook))
	mux.HandleFunc("POST /admin/smartphones", admin.RequireKey(apiKey, adminHandler.HandleCreateSmartphone))
	mux.HandleFunc("PUT /admin/smartphones/{id}", admin.RequireKey(apiKey, adminHandler.HandleUpdateSmartphone))
}

func initLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

func initDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "goshop"),
			envOr("DB_PASSWORD", "goshop"),
			envOr("DB_NAME", "goshop"),
			envOr("DB_PORT", "5432"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.S().Fatalf("db connection failed: %v", err)
	}
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
