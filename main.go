package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/keval2310/Expense-Manager/internal/config"
	"github.com/keval2310/Expense-Manager/internal/database"
	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/router"
	"github.com/keval2310/Expense-Manager/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// optional .env for local development; viper reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	if err := seedAdmin(st, cfg.Admin.Email); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	r := router.SetupRouter(cfg, st)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s (store: %s)", addr, cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "kv":
		return store.OpenKV(cfg.KV.Path)
	case "", "sql":
		db, err := database.Init(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return store.NewSQL(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// seedAdmin promotes the designated admin and demotes everyone else, so
// exactly one admin remains. A missing user is logged, not fatal: the
// account may simply not have registered yet.
func seedAdmin(st store.Store, email string) error {
	if email == "" {
		return nil
	}
	ctx := context.Background()

	user, err := st.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("admin seed: no user with email %s yet", email)
			return nil
		}
		return err
	}

	if user.Role != models.RoleAdmin {
		user.Role = models.RoleAdmin
		if err := st.UpdateUser(ctx, user); err != nil {
			return err
		}
		log.Printf("admin seed: promoted %s", email)
	}
	return st.DemoteAdminsExcept(ctx, user.ID)
}
