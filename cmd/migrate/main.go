package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/treadbook/treadbook/internal/infra/migrations"
)

func main() {
	op := flag.String("op", "", "operation: up, down, version, force")
	steps := flag.Int("steps", 0, "number of steps for up/down (0 = all), or target version for force")
	dsn := flag.String("dsn", "", "postgres dsn (defaults to DATABASE_URL)")
	flag.Parse()

	if *op == "" {
		fmt.Println("Usage: migrate -op=[up|down|version|force] [-steps=n] [-dsn=postgres://...]")
		os.Exit(1)
	}

	_ = godotenv.Load()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		log.Fatal("no dsn: pass -dsn or set DATABASE_URL")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		log.Fatalf("create migrate driver: %v", err)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("create source driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		log.Fatalf("create migrate instance: %v", err)
	}

	switch *op {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-(*steps))
		} else {
			err = m.Down()
		}
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil {
			log.Fatal(verr)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
		return
	case "force":
		if *steps == 0 {
			log.Fatal("pass the version to force via -steps")
		}
		err = m.Force(*steps)
	default:
		log.Fatalf("unknown operation %q", *op)
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no changes")
			return
		}
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("migration success")
}
