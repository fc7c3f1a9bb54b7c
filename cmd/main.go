package main

import (
	"log"

	"github.com/hasibdev/blog-api/internal/category"
	"github.com/hasibdev/blog-api/internal/config"
	"github.com/hasibdev/blog-api/internal/database"
	"github.com/hasibdev/blog-api/internal/server"
	"github.com/hasibdev/blog-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Configuration error: ", err)
	}
	log.Println("✅ Config loaded")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed: ", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	st, err := storage.New(cfg)
	if err != nil {
		log.Fatal("❌ Failed to initialize storage: ", err)
	}
	log.Printf("💾 Storage mode: %s", st.Mode())

	if err := category.SeedDefaults(db); err != nil {
		log.Println("⚠️  Failed to seed categories (may already exist): ", err)
	} else {
		log.Println("✅ Default categories seeded")
	}

	app := server.New(cfg, db, st)

	log.Printf("🚀 Blog API starting on %s", cfg.ServerAddr)
	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server: ", err)
	}
}
