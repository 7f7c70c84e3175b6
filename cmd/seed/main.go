package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/learnsphere/academy-api/config"
	"github.com/learnsphere/academy-api/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	if !env.UseRemoteStore() {
		log.Fatal("Seeding targets the PostgreSQL backend; set DB_HOST, DB_USER_NAME and DB_NAME first. The local demo store seeds itself on startup.")
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	gormDB := store.GetDB().(*gorm.DB)

	// Run seeds
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("LearnSphere Academy - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	if err := database.RunSeeds(gormDB); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("🎉 Seeding completed successfully!")
	fmt.Println(separator)
}
