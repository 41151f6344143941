package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/fleetworks/fleet-maintenance/internal/seeds"
)

var (
	dbHost     = getEnv("DB_HOST", "localhost")
	dbPort     = getEnv("DB_PORT", "5432")
	dbUser     = getEnv("DB_USER", "postgres")
	dbPassword = getEnv("DB_PASSWORD", "postgres")
	dbName     = getEnv("DB_NAME", "fleet")
	dbSSLMode  = getEnv("DB_SSL_MODE", "disable")
)

func main() {
	var (
		verifyOnly = flag.Bool("verify", false, "Only verify seeded data, don't seed")
		statsOnly  = flag.Bool("stats", false, "Only show table statistics")
		force      = flag.Bool("force", false, "Force re-seeding the workflow definition")
	)
	flag.Parse()

	log.SetFlags(log.LstdFlags)
	log.SetPrefix("[Fleet Seed] ")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	log.Println("Connecting to database...")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	seeder := seeds.NewSeeder(db)

	switch {
	case *statsOnly:
		if err := seeder.Stats(ctx); err != nil {
			log.Fatalf("Failed to get statistics: %v", err)
		}
	case *verifyOnly:
		if err := seeder.Verify(ctx); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
	default:
		if err := seeder.Run(ctx, *force); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		if err := seeder.Verify(ctx); err != nil {
			log.Fatalf("Post-seed verification failed: %v", err)
		}
		log.Println("Seeding complete")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
