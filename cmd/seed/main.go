// Command seed inserts (or refreshes) a user and prints a token for it, for
// exercising the profile API locally.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	email := os.Getenv("SEED_USER_EMAIL")
	password := os.Getenv("SEED_USER_PASSWORD")
	name := os.Getenv("SEED_USER_NAME")
	if email == "" || password == "" {
		appLogger.Fatal("SEED_USER_EMAIL and SEED_USER_PASSWORD are required", nil)
	}

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer pool.Close()

	users := persistence.NewPostgresUserRepo(pool)

	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		hash, err := auth.HashPassword(password)
		if err != nil {
			appLogger.Fatal("Cannot hash password", err)
		}
		u = &user.User{
			ID:           uuid.New(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Create(ctx, u); err != nil {
			appLogger.Fatal("Cannot add user", err)
		}
		appLogger.Info("Added user", zap.String("email", email), zap.String("user_id", u.ID.String()))
	} else if !auth.CheckPasswordHash(password, u.PasswordHash) {
		appLogger.Fatal("User exists with a different password", nil, zap.String("email", email))
	}

	token, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan).GenerateToken(u.ID)
	if err != nil {
		appLogger.Fatal("Cannot generate token", err)
	}
	fmt.Println(token)
}
