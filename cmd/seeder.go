package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearTables(db)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Username string
			FullName string
			Email    string
			Role     string
		}{
			{"ops_admin", "Operations Admin", "ops@guardops.dev", "admin"},
			{"guard_arman", "Arman Silitonga", "arman@guardops.dev", "guard"},
			{"guard_budi", "Budi Hartono", "budi@guardops.dev", "guard"},
			{"guard_citra", "Citra Maharani", "citra@guardops.dev", "guard"},
			{"guard_dewi", "Dewi Lestari", "dewi@guardops.dev", "guard"},
		}

		guardIDs := make([]string, 0, len(users))
		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			id := uuid.New().String()
			if err := db.Exec(
				"INSERT INTO users (id, username, full_name, email, password_hash, role, verified, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				id, u.Username, u.FullName, u.Email, string(hash), u.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			if u.Role == "guard" {
				guardIDs = append(guardIDs, id)
			}
			fmt.Printf("Seeded user: %s (%s)\n", u.Username, u.Role)
		}

		firearms := []struct {
			Name    string
			Serial  string
			Model   string
			Caliber string
		}{
			{"Sidearm A", "FA-1001", "G17", "9mm"},
			{"Sidearm B", "FA-1002", "G17", "9mm"},
			{"Sidearm C", "FA-1003", "P320", "9mm"},
		}

		for _, f := range firearms {
			var exists int
			if err := db.Raw("SELECT 1 FROM firearms WHERE serial_number = ?", f.Serial).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO firearms (id, name, serial_number, model, caliber, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 'available', now(), now())",
				uuid.New().String(), f.Name, f.Serial, f.Model, f.Caliber).Error; err != nil {
				log.Fatalf("failed to insert firearm %s: %v", f.Serial, err)
			}
			fmt.Printf("Seeded firearm: %s\n", f.Serial)
		}

		vehicles := []struct {
			Plate        string
			VIN          string
			Model        string
			Manufacturer string
		}{
			{"B-1234-GO", "VIN0001", "Sprinter Armored", "Mercedes-Benz"},
			{"B-5678-GO", "VIN0002", "Land Cruiser Armored", "Toyota"},
		}

		for _, v := range vehicles {
			var exists int
			if err := db.Raw("SELECT 1 FROM armored_cars WHERE license_plate = ?", v.Plate).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO armored_cars (id, license_plate, vin, model, manufacturer, capacity_kg, passenger_capacity, status, mileage, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 1500, 4, 'available', 0, now(), now())",
				uuid.New().String(), v.Plate, v.VIN, v.Model, v.Manufacturer).Error; err != nil {
				log.Fatalf("failed to insert vehicle %s: %v", v.Plate, err)
			}
			fmt.Printf("Seeded vehicle: %s\n", v.Plate)
		}

		// Every seeded guard gets an active permit and current training so
		// the issuance gate passes out of the box in development.
		now := time.Now()
		expiry := now.AddDate(1, 0, 0)
		for _, guardID := range guardIDs {
			if err := db.Exec(
				"INSERT INTO guard_firearm_permits (id, guard_id, permit_type, issued_date, expiry_date, status, created_at, updated_at) VALUES (?, ?, 'standard', ?, ?, 'active', now(), now())",
				uuid.New().String(), guardID, now, expiry).Error; err != nil {
				log.Fatalf("failed to insert permit for %s: %v", guardID, err)
			}
			if err := db.Exec(
				"INSERT INTO training_records (id, guard_id, training_type, completed_date, expiry_date, status, created_at, updated_at) VALUES (?, ?, 'firearms_handling', ?, ?, 'valid', now(), now())",
				uuid.New().String(), guardID, now, expiry).Error; err != nil {
				log.Fatalf("failed to insert training for %s: %v", guardID, err)
			}
		}
		if len(guardIDs) > 0 {
			fmt.Printf("Seeded permits and training for %d guards\n", len(guardIDs))
		}

		fmt.Println("Seeding finished")
	},
}

func clearTables(db *gorm.DB) {
	tables := []string{
		"client_evaluations", "guard_merit_scores", "punctuality_records",
		"notifications", "attendance", "shifts", "trips", "car_allocations",
		"firearm_allocations", "missions", "guard_firearm_permits",
		"training_records", "guard_availability", "armored_cars",
		"firearms", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}
