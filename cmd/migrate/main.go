// Command migrate creates the database schema and optionally seeds the
// default data. It is meant to run once at deploy time; the API server
// never touches the schema.
package main

import (
	"flag"
	"log"
	"os"

	"mcc-backend/internal/database"
	"mcc-backend/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	withSeed := flag.Bool("seed", false, "insert default formulas, products and admin user after migrating")
	flag.Parse()

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	db, err := database.NewConnection(buildDSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migrated.")

	if *withSeed {
		adminUser := os.Getenv("ADMIN_USERNAME")
		if adminUser == "" {
			adminUser = "admin"
		}
		adminPassword := os.Getenv("ADMIN_PASSWORD")
		if adminPassword == "" {
			log.Println("warning: ADMIN_PASSWORD is not set, skipping admin seed")
		}

		stats, err := seed.Run(db, seed.Config{
			AdminUsername: adminUser,
			AdminPassword: adminPassword,
		})
		if err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Printf("Seed complete: %d rows inserted.", stats.Inserts)
	}
}

func buildDSN() string {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	return "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode
}
