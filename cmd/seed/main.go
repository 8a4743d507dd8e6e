package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/bundles"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Cinebook Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"seat_claims",
		"bundle_orders",
		"bookings",
		"bundles",
		"showtimes",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			// Table may not exist yet on a fresh database
			log.Printf("⚠️  Could not truncate %s: %v", table, err)
		}
	}
	return nil
}

// SeedAll seeds showtimes and bundles
func (s *Seeder) SeedAll() error {
	if err := s.SeedShowtimes(); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}
	if err := s.SeedBundles(); err != nil {
		return fmt.Errorf("failed to seed bundles: %w", err)
	}
	return nil
}

// SeedShowtimes creates a week of screenings across two theaters
func (s *Seeder) SeedShowtimes() error {
	ctx := context.Background()
	repo := showtimes.NewRepository(s.db.GetPostgreSQL())

	type screening struct {
		title   string
		theater string
		price   float64
	}

	screenings := []screening{
		{"Interstellar Horizons", "Theater 1", 12.50},
		{"The Last Projection", "Theater 1", 12.50},
		{"Midnight in the Lobby", "Theater 2", 10.00},
		{"Celluloid Dreams", "Theater 2", 10.00},
	}

	baseDay := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	slots := []time.Duration{14 * time.Hour, 17*time.Hour + 30*time.Minute, 21 * time.Hour}

	count := 0
	for day := 0; day < 7; day++ {
		for i, sc := range screenings {
			// Alternate titles across slots so each day differs
			slot := slots[(day+i)%len(slots)]
			showtime := &showtimes.Showtime{
				ID:           uuid.New(),
				MovieTitle:   sc.title,
				Theater:      sc.theater,
				StartsAt:     baseDay.Add(time.Duration(day)*24*time.Hour + slot),
				PricePerSeat: sc.price,
				Rows:         8,
				SeatsPerRow:  12,
			}
			if err := repo.Create(ctx, showtime); err != nil {
				return err
			}
			count++
		}
	}

	fmt.Printf("   🎬 Created %d showtimes\n", count)
	return nil
}

// SeedBundles creates the merchandise catalog
func (s *Seeder) SeedBundles() error {
	ctx := context.Background()
	repo := bundles.NewRepository(s.db.GetPostgreSQL())

	catalog := []bundles.Bundle{
		{
			ID:          uuid.New(),
			Name:        "Classic Combo",
			Description: "Large popcorn and two soft drinks",
			Price:       9.50,
			Active:      true,
		},
		{
			ID:          uuid.New(),
			Name:        "Date Night",
			Description: "Two tickets, shared popcorn, two drinks",
			Price:       32.00,
			// Price covers the seats; booking still allocates them
			TicketIncluded: true,
			Active:         true,
		},
		{
			ID:          uuid.New(),
			Name:        "Collector Pack",
			Description: "Limited poster, enamel pin and a medium popcorn",
			Price:       18.00,
			Active:      true,
		},
	}

	for i := range catalog {
		if err := repo.CreateBundle(ctx, &catalog[i]); err != nil {
			return err
		}
	}

	fmt.Printf("   🍿 Created %d bundles\n", len(catalog))
	return nil
}
