// Package main provides a CLI tool for seeding the database with demo data:
// a few recipients, vehicles and the default content blocks.
package main

import (
	"context"
	"fmt"
	"os"

	"motordesk/internal/config"
	"motordesk/internal/core/apperror"
	"motordesk/internal/core/types"
	"motordesk/internal/domain/catalogs/recipient"
	"motordesk/internal/domain/catalogs/vehicle"
	"motordesk/internal/domain/content"
	"motordesk/internal/infrastructure/storage/postgres"
	"motordesk/internal/infrastructure/storage/postgres/catalog_repo"
	"motordesk/internal/infrastructure/storage/postgres/content_repo"
	"motordesk/pkg/logger"
	"motordesk/pkg/numerator"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DSN()
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(postgres.NewTxAwareQuerier(txManager))

	recipientService := recipient.NewService(catalog_repo.NewRecipientRepo(txManager), txManager, numeratorService)
	vehicleService := vehicle.NewService(catalog_repo.NewVehicleRepo(txManager), txManager, numeratorService)

	blockRepo, err := content_repo.NewBlockRepo(txManager)
	if err != nil {
		log.Fatalw("failed to create content repo", "error", err)
	}
	contentService := content.NewService(blockRepo, txManager)

	if err := seedRecipients(ctx, recipientService, log); err != nil {
		log.Fatalw("failed to seed recipients", "error", err)
	}
	if err := seedVehicles(ctx, vehicleService, log); err != nil {
		log.Fatalw("failed to seed vehicles", "error", err)
	}
	if err := seedContent(ctx, contentService, log); err != nil {
		log.Fatalw("failed to seed content blocks", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedRecipients(ctx context.Context, svc *recipient.Service, log *logger.Logger) error {
	seeds := []struct {
		name    string
		email   string
		phone   string
		address string
	}{
		{"Al Futtaim Motors", "fleet@alfuttaim.example", "+971-4-555-0101", "Sheikh Zayed Road, Dubai"},
		{"Gulf Auto Traders", "accounts@gulfauto.example", "+971-2-555-0144", "Mussafah M-9, Abu Dhabi"},
		{"Sara Haddad", "sara.haddad@example.com", "+971-50-555-0199", ""},
	}

	for _, s := range seeds {
		existing, err := svc.FindByEmail(ctx, s.email)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			log.Infow("recipient already exists", "email", s.email, "code", existing.Code)
			continue
		}

		r := recipient.NewRecipient(s.name, s.email)
		if s.phone != "" {
			r.Phone = &s.phone
		}
		if s.address != "" {
			r.Address = &s.address
		}

		if err := svc.Create(ctx, r); err != nil {
			return err
		}
		log.Infow("created recipient", "code", r.Code, "name", r.Name)
	}

	return nil
}

func seedVehicles(ctx context.Context, svc *vehicle.Service, log *logger.Logger) error {
	seeds := []struct {
		make  string
		model string
		year  int
		color string
		vin   string
		price string
	}{
		{"Toyota", "Land Cruiser", 2025, "Pearl White", "JTMCY7AJ0SD123456", "285000.00"},
		{"Nissan", "Patrol", 2024, "Gun Metallic", "JN8AY2NY5RX654321", "245000.00"},
		{"Lexus", "LX 600", 2025, "Sonic Quartz", "JTJHY7AX1S4112233", "459000.00"},
	}

	for _, s := range seeds {
		existing, err := svc.FindByVIN(ctx, s.vin)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			log.Infow("vehicle already exists", "vin", s.vin, "code", existing.Code)
			continue
		}

		v := vehicle.NewVehicle(s.make, s.model, s.year)
		v.Color = &s.color
		v.VIN = &s.vin
		v.ListPrice = types.MustMoney(s.price)

		if err := svc.Create(ctx, v); err != nil {
			return err
		}
		log.Infow("created vehicle", "code", v.Code, "name", v.Name)
	}

	return nil
}

func seedContent(ctx context.Context, svc *content.Service, log *logger.Logger) error {
	seeds := []struct {
		slug    string
		title   string
		titleAr string
		body    string
		bodyAr  string
	}{
		{
			slug:    "home-hero",
			title:   "Find your next car",
			titleAr: "اعثر على سيارتك القادمة",
			body:    "<h1>Find your next car</h1><p>Browse certified vehicles from trusted dealers.</p>",
			bodyAr:  "<h1>اعثر على سيارتك القادمة</h1><p>تصفح المركبات المعتمدة من وكلاء موثوقين.</p>",
		},
		{
			slug:    "about-us",
			title:   "About Us",
			titleAr: "من نحن",
			body:    "<p>MotorDesk is the back office behind the marketplace.</p>",
			bodyAr:  "<p>موتورديسك هو المكتب الخلفي وراء السوق.</p>",
		},
		{
			slug:    "invoice-footer",
			title:   "Invoice Footer",
			titleAr: "تذييل الفاتورة",
			body:    "<p>Payment is due by the date shown above. Prices include VAT.</p>",
			bodyAr:  "<p>يستحق الدفع بحلول التاريخ الموضح أعلاه. الأسعار تشمل ضريبة القيمة المضافة.</p>",
		},
	}

	for _, s := range seeds {
		block := content.NewBlock(s.slug)
		block.Title = s.title
		block.TitleAr = s.titleAr
		block.BodyHTML = s.body
		block.BodyHTMLAr = s.bodyAr

		saved, err := svc.Save(ctx, block)
		if err != nil {
			return err
		}
		log.Infow("saved content block", "slug", saved.Slug, "version", saved.Version)
	}

	return nil
}
