package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/model"
)

const (
	devUserID    = "usr_casa_dev_000000000001"
	devUserEmail = "agent@casaandina.test"
	devSlug      = "casa-andina"
)

type propertiesFile struct {
	Properties []model.Property `yaml:"properties"`
}

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "agencysites"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	services := core.NewServices(pool, jwtSecret, jwtIssuer)

	fmt.Println("Seeding site database...")

	fmt.Println("  Upserting demo tenant...")
	demo := content.DemoTenant()
	doc, err := json.Marshal(demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode demo tenant: %v\n", err)
		os.Exit(1)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO tenants (id, slug, document, created_at, updated_at) VALUES ($1, $2, $3, now(), now())
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		demo.ID, demo.Slug, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert demo tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Creating trial tenant...")
	trial, err := services.Tenant.Create(ctx, core.CreateTenantParams{
		Name:     "Casa Andina (dev)",
		Slug:     devSlug,
		OwnerID:  devUserID,
		Template: model.TemplateCanvas,
		Contact:  model.Contact{Email: devUserEmail, City: "Lima"},
	})
	if errors.Is(err, core.ErrSlugTaken) {
		fmt.Println("    Trial tenant already exists")
		trial, err = services.Tenant.GetBySlug(ctx, devSlug)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "create trial tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Seeding properties...")
	if err := seedProperties(ctx, services.Property, demo.ID, trial.ID); err != nil {
		fmt.Fprintf(os.Stderr, "seed properties: %v\n", err)
		os.Exit(1)
	}

	token, err := services.Auth.IssueToken(model.Identity{
		UserID:    devUserID,
		Email:     devUserEmail,
		TenantIDs: []string{trial.ID},
	}, 30*24*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue dev token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
	fmt.Println()
	fmt.Printf("  Public site:  /sites/%s\n", trial.Slug)
	fmt.Printf("  Admin API:    /api/v1/tenants/%s/content\n", trial.Slug)
	fmt.Printf("  Dev token:    %s\n", token)
}

func seedProperties(ctx context.Context, svc *core.PropertyService, tenantIDs ...string) error {
	// Resolve path relative to this source file so it works regardless of cwd.
	_, thisFile, _, _ := runtime.Caller(0)
	yamlPath := filepath.Join(filepath.Dir(thisFile), "properties.yaml")

	data, err := os.ReadFile(yamlPath)
	if err != nil {
		return fmt.Errorf("read properties.yaml: %w", err)
	}

	var pf propertiesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse properties.yaml: %w", err)
	}

	now := time.Now().UTC()
	for _, tenantID := range tenantIDs {
		for i, p := range pf.Properties {
			p.ID = tenantID + "-" + p.ID
			p.TenantID = tenantID
			p.CreatedAt = now.Add(-time.Duration(i) * time.Hour)
			fmt.Printf("    Upserting property %s (%s)\n", p.ID, p.Title)
			if err := svc.Create(ctx, &p); err != nil {
				return err
			}
		}
	}
	return nil
}
