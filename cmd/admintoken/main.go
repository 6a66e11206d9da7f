// Command admintoken mints a dashboard JWT for a staff member and prints it to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/florale-backend/pkg/auth"
	"github.com/angelmondragon/florale-backend/pkg/config"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "admintoken", Output: os.Stderr})

	_ = godotenv.Load()

	staffID := flag.String("staff", "", "staff identifier (required)")
	name := flag.String("name", "", "display name")
	role := flag.String("role", string(enums.StaffRoleFlorist), "staff role: admin|florist")
	point := flag.String("point", "", "bind the token to one pickup point; empty means all points")
	flag.Parse()

	var cfg config.JWTConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		logg.Error(context.Background(), "failed to load jwt config", err)
		os.Exit(1)
	}

	parsedRole, err := enums.ParseStaffRole(*role)
	if err != nil {
		logg.Error(context.Background(), "invalid role", err)
		os.Exit(1)
	}

	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		StaffID: *staffID,
		Name:    *name,
		Role:    parsedRole,
		PointID: *point,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to mint token", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"staff_id": *staffID,
		"role":     parsedRole,
		"point_id": *point,
		"expires":  time.Now().Add(time.Duration(cfg.ExpirationMinutes) * time.Minute).UTC().Format(time.RFC3339),
	})
	logg.Info(ctx, "token minted")
	fmt.Println(token)
}
