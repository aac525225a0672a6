// Command operator-token signs a bearer token for a door device or an admin
// with the server's auth secret.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/services/operators"
)

func main() {
	var (
		configPath string
		name       string
		role       string
		id         string
		ttl        time.Duration
	)
	pflag.StringVarP(&configPath, "config", "c", "", "path to config file (defaults to CONFIG_PATH)")
	pflag.StringVarP(&name, "name", "n", "", "operator name, e.g. \"Front door\"")
	pflag.StringVarP(&role, "role", "r", string(models.RoleOperator), "operator or admin")
	pflag.StringVar(&id, "id", "", "operator id (generated when empty)")
	pflag.DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	pflag.Parse()

	cfg := config.MustLoad(configPath)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}

	authenticator := operators.New(log, cfg.Auth.Secret, ttl)
	operator, token, err := authenticator.IssueToken(models.Operator{
		ID:   id,
		Name: name,
		Role: models.Role(role),
	})
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "operator %s (%s), valid for %s\n", operator.ID, operator.Role, ttl)
	fmt.Println(token)
}
