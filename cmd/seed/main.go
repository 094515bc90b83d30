package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"photomarket/internal/config"
	"photomarket/internal/database"
	"photomarket/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM deliverables")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM conversations")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM status_history_entries")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@photomarket.io",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@photomarket.io / admin123")

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	clients := make([]domain.User, 0, 2)
	for i, email := range []string{"maria@example.com", "james@example.com"} {
		c := domain.User{
			Email:        email,
			PasswordHash: string(clientHash),
			Role:         domain.RoleClient,
			Name:         fmt.Sprintf("Client %d", i+1),
			Phone:        fmt.Sprintf("+1 555 010 00%02d", i+1),
		}
		db.Create(&c)
		clients = append(clients, c)
	}

	photoHash, _ := bcrypt.GenerateFromPassword([]byte("photo123"), bcrypt.DefaultCost)
	photographers := make([]domain.User, 0, 2)
	for i, email := range []string{"lena.shoots@example.com", "omar.lens@example.com"} {
		p := domain.User{
			Email:        email,
			PasswordHash: string(photoHash),
			Role:         domain.RolePhotographer,
			Name:         fmt.Sprintf("Photographer %d", i+1),
			Phone:        fmt.Sprintf("+1 555 020 00%02d", i+1),
		}
		db.Create(&p)
		photographers = append(photographers, p)
	}

	log.Println("Creating bookings...")

	// One fresh request and one mid-pipeline booking with history.
	fresh := domain.Booking{
		ClientID:        clients[0].ID,
		PropertyAddress: "12 Harbor View, Unit 3",
		ShootType:       domain.ShootPhoto,
		Package:         "standard",
		ScheduledAt:     time.Now().Add(72 * time.Hour),
		Status:          domain.StatusBookingCreated,
		PaymentStatus:   domain.PaymentUnpaid,
	}
	db.Create(&fresh)
	db.Create(&domain.StatusHistoryEntry{
		BookingID: fresh.ID,
		UserID:    clients[0].ID,
		Status:    domain.StatusBookingCreated,
	})

	active := domain.Booking{
		ClientID:             clients[1].ID,
		PhotographerID:       &photographers[0].ID,
		PhotographerAccepted: true,
		PropertyAddress:      "480 Birch Lane",
		ShootType:            domain.ShootBoth,
		Package:              "premium",
		ScheduledAt:          time.Now().Add(24 * time.Hour),
		Status:               domain.StatusShooting,
		PaymentStatus:        domain.PaymentPaid,
	}
	db.Create(&active)
	for i, st := range []domain.BookingStatus{domain.StatusBookingCreated, domain.StatusPhotographerAssigned, domain.StatusShooting} {
		db.Create(&domain.StatusHistoryEntry{
			BookingID: active.ID,
			UserID:    admin.ID,
			Status:    st,
			CreatedAt: time.Now().Add(time.Duration(i-3) * 24 * time.Hour),
		})
	}

	log.Println("Seed complete.")
}
