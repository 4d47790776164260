package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/nexable/smartcookly/backend/config"
	"github.com/nexable/smartcookly/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the .sql migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("DATABASE_URL not set and configuration failed to load: %v", err)
		}
		if cfg.DBDriver != "postgres" {
			log.Fatal("DATABASE_URL environment variable is not set and DB_DRIVER is not postgres")
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	migrator := database.NewMigrator(db, *migrationsDir)

	if *rollback {
		name, err := migrator.Rollback()
		if errors.Is(err, database.ErrNoMigrations) {
			log.Fatal("No migrations to rollback")
		}
		if err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	applied, err := migrator.Up()
	for _, name := range applied {
		fmt.Printf("Successfully applied migration: %s\n", name)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("All migrations applied successfully.")
}
