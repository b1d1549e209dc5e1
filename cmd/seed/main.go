package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Seeds the catalog with the two variant categories and a handful of demo
// products. Safe to run repeatedly; existing slugs are left alone. Run the
// server once first so the schema exists.
func main() {
	_ = godotenv.Load()

	db, err := sql.Open("postgres", dsn())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	for _, stmt := range seedStatements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("seed statement failed: %v\n%s", err, stmt)
		}
	}
	log.Println("seed complete")
}

func dsn() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "goshop"),
		envOr("DB_PASSWORD", "goshop"),
		envOr("DB_NAME", "goshop"),
		envOr("DB_PORT", "5432"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var seedStatements = []string{
	`INSERT INTO categories (name, slug) VALUES
		('Notebooks', 'notebooks'),
		('Smartphones', 'smartphones')
	ON CONFLICT (slug) DO NOTHING`,

	`INSERT INTO notebooks
		(category_id, title, slug, image, description, price, created_at,
		 diagonal, display_type, processor_freq, ram, video, battery_life)
	SELECT c.id, v.title, v.slug, v.image, v.description, v.price, now(),
		   v.diagonal, v.display_type, v.processor_freq, v.ram, v.video, v.battery_life
	FROM categories c,
		(VALUES
			('Aspire 5', 'aspire-5', 'aspire-5.jpg', 'Budget workhorse', 549.99,
			 '15.6', 'IPS', '2.4 GHz', '8 GB', 'Iris Xe', '9 hours'),
			('ThinkPad X1', 'thinkpad-x1', 'thinkpad-x1.jpg', 'Business ultrabook', 1449.00,
			 '14', 'OLED', '3.0 GHz', '16 GB', 'Iris Xe', '12 hours')
		) AS v(title, slug, image, description, price, diagonal, display_type,
			   processor_freq, ram, video, battery_life)
	WHERE c.slug = 'notebooks'
	ON CONFLICT (slug) DO NOTHING`,

	`INSERT INTO smartphones
		(category_id, title, slug, image, description, price, created_at,
		 diagonal, display_type, resolution, accum_volume, ram, sd, sd_volume_max,
		 main_cam_mp, frontal_cam_mp)
	SELECT c.id, v.title, v.slug, v.image, v.description, v.price, now(),
		   v.diagonal, v.display_type, v.resolution, v.accum_volume, v.ram, v.sd,
		   v.sd_volume_max, v.main_cam_mp, v.frontal_cam_mp
	FROM categories c,
		(VALUES
			('Galaxy A54', 'galaxy-a54', 'galaxy-a54.jpg', 'Mid-range allrounder', 399.00,
			 '6.4', 'AMOLED', '2340x1080', '5000 mAh', '8 GB', true, '1 TB', '50 MP', '32 MP'),
			('Pixel 8', 'pixel-8', 'pixel-8.jpg', 'Clean Android flagship', 699.00,
			 '6.2', 'OLED', '2400x1080', '4575 mAh', '8 GB', false, NULL, '50 MP', '10.5 MP')
		) AS v(title, slug, image, description, price, diagonal, display_type,
			   resolution, accum_volume, ram, sd, sd_volume_max, main_cam_mp, frontal_cam_mp)
	WHERE c.slug = 'smartphones'
	ON CONFLICT (slug) DO NOTHING`,
}
