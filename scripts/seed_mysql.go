package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/config"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/crypto"
	"github.com/gigmile/dashboard-service/internal/infrastructure/database"
	sqlrepository "github.com/gigmile/dashboard-service/internal/infrastructure/repository/sql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixed namespace so reseeding produces the same customer and invoice IDs.
var seedNamespace = uuid.MustParse("6f1c2a7e-4a57-4d0e-9a3c-2f1d8c0b5e11")

func seedID(parts ...interface{}) string {
	return uuid.NewSHA1(seedNamespace, []byte(fmt.Sprint(parts...))).String()
}

func main() {
	cfg := config.Load()
	if cfg.Database.Driver != "mysql" {
		log.Fatalf("seed only supports DB_DRIVER=mysql, got %q", cfg.Database.Driver)
	}

	ctx := context.Background()
	gdb, err := database.Open(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	if err := database.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	db, err := gdb.DB()
	if err != nil {
		log.Fatalf("Failed to get sql.DB: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to MySQL successfully")

	repos := sqlrepository.NewRepositories(gdb, zap.NewNop())
	auth := service.NewAuthService(repos.User, crypto.NewArgon2Hasher(crypto.DefaultParams), zap.NewNop())
	_, err = auth.RegisterUser(ctx, "User", "user@nextmail.com", "123456")
	switch {
	case errors.Is(err, sqlrepository.ErrDuplicateEmail):
		fmt.Println("User user@nextmail.com already exists")
	case err != nil:
		log.Fatalf("Failed to seed user: %v", err)
	default:
		fmt.Println("Seeded user: user@nextmail.com / 123456")
	}

	customers := []struct {
		name  string
		email string
	}{
		{"Evil Rabbit", "evil@rabbit.com"},
		{"Delba de Oliveira", "delba@oliveira.com"},
		{"Lee Robinson", "lee@robinson.com"},
		{"Michael Novotny", "michael@novotny.com"},
		{"Amy Burns", "amy@burns.com"},
		{"Balazs Orban", "balazs@orban.com"},
	}

	for _, c := range customers {
		_, err := db.ExecContext(ctx, `
			INSERT INTO customers (id, name, email, image_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, NOW(), NOW())
			ON DUPLICATE KEY UPDATE
			    name = VALUES(name),
			    email = VALUES(email)
		`, seedID("customer", c.email), c.name, c.email, domain.PlaceholderImageURL)
		if err != nil {
			log.Fatalf("Failed to seed customer %s: %v", c.email, err)
		}
		fmt.Printf("Seeded customer: %s <%s>\n", c.name, c.email)
	}

	today := time.Now()
	invoices := []struct {
		email   string
		amount  float64
		status  domain.InvoiceStatus
		daysAgo int
	}{
		{"evil@rabbit.com", 157.95, domain.InvoiceStatusPending, 1},
		{"delba@oliveira.com", 203.48, domain.InvoiceStatusPending, 3},
		{"lee@robinson.com", 3040.40, domain.InvoiceStatusPaid, 9},
		{"michael@novotny.com", 448.00, domain.InvoiceStatusPaid, 12},
		{"amy@burns.com", 345.77, domain.InvoiceStatusPending, 20},
		{"balazs@orban.com", 542.46, domain.InvoiceStatusPaid, 33},
		{"evil@rabbit.com", 666.00, domain.InvoiceStatusPending, 41},
		{"lee@robinson.com", 325.45, domain.InvoiceStatusPaid, 58},
		{"amy@burns.com", 12.50, domain.InvoiceStatusPaid, 70},
		{"delba@oliveira.com", 1000.00, domain.InvoiceStatusPaid, 95},
	}

	for i, inv := range invoices {
		date := today.AddDate(0, 0, -inv.daysAgo).Format(domain.DateLayout)
		_, err := db.ExecContext(ctx, `
			INSERT INTO invoices (id, customer_id, amount, status, date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, NOW(), NOW())
			ON DUPLICATE KEY UPDATE
			    amount = VALUES(amount),
			    status = VALUES(status)
		`, seedID("invoice", i), seedID("customer", inv.email), domain.DollarsToCents(inv.amount), string(inv.status), date)
		if err != nil {
			log.Fatalf("Failed to seed invoice %d: %v", i, err)
		}
	}
	fmt.Printf("Seeded %d invoices\n", len(invoices))

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("Sign in at /login with user@nextmail.com / 123456")
}
