package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"planify/internal/config"
	"planify/internal/db"
	"planify/internal/model"
	"planify/internal/repository"
)

const (
	demoEmail    = "demo@planify.local"
	demoName     = "Demo User"
	demoPassword = "planify-demo"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	user, err := seedUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (id %d)", user.Email, user.ID)

	existing, err := taskRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to check existing tasks: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Demo user already has %d tasks, skipping task seed", len(existing))
		return
	}

	tasks := demoTasks(user.ID)
	if err := taskRepo.CreateBatch(ctx, tasks); err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Tasks created: %d", len(tasks))
	log.Printf("  - Login with %s / %s", demoEmail, demoPassword)
}

// seedUser creates the demo user if it does not exist yet.
func seedUser(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:         demoName,
		Email:        demoEmail,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// demoTasks returns a small spread of tasks across priorities and due dates,
// including one overdue item so the stats endpoint has something to count.
func demoTasks(ownerID uint) []model.Task {
	now := time.Now()
	return []model.Task{
		{
			Title:       "Write project proposal",
			Description: "First draft for the Q4 planning meeting",
			Priority:    model.PriorityHigh,
			DueDate:     now.AddDate(0, 0, 2),
			OwnerID:     ownerID,
		},
		{
			Title:       "Review pull requests",
			Priority:    model.PriorityMedium,
			DueDate:     now.AddDate(0, 0, 1),
			OwnerID:     ownerID,
		},
		{
			Title:       "Renew gym membership",
			Priority:    model.PriorityLow,
			DueDate:     now.AddDate(0, 0, -3),
			OwnerID:     ownerID,
		},
		{
			Title:       "Book dentist appointment",
			Description: "Ask about the Friday slot",
			Priority:    model.PriorityMedium,
			DueDate:     now.AddDate(0, 0, 14),
			Completed:   true,
			OwnerID:     ownerID,
		},
	}
}
