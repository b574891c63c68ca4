// shop-admin - служебные команды: миграции, наполнение каталога, блокировка пользователей.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/honey-shop/internal/config"
	"github.com/vasiliy-maslov/honey-shop/internal/db"
	"github.com/vasiliy-maslov/honey-shop/internal/logger"
	"github.com/vasiliy-maslov/honey-shop/internal/password"
	"github.com/vasiliy-maslov/honey-shop/internal/product"
	"github.com/vasiliy-maslov/honey-shop/internal/user"
)

const usage = `usage: shop-admin <command> [flags]

commands:
  migrate                    apply database migrations
  seed [-force]              insert sample products into an empty catalog
  deactivate -email <email>  block a user from signing in
  activate -email <email>    unblock a user
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("shop-admin failed")
	}
}

func run(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	command, rest := args[0], args[1:]
	opts, err := parseCommand(command, rest, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.App, "shop-admin")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgres, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer postgres.Close()

	if err := postgres.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	switch command {
	case "migrate":
		log.Info().Msg("Migrations are up to date")
		return nil
	case "seed":
		products := product.NewService(product.NewRepository(postgres.SQL), nil)
		inserted, err := products.Seed(ctx, opts.force)
		if err != nil {
			return err
		}
		log.Info().Int("inserted", inserted).Msg("Seeding finished")
		return nil
	default:
		users := user.NewService(user.NewRepository(postgres.Pool), password.NewHasher(cfg.Auth.BcryptCost))
		return setActive(ctx, users, opts.email, command == "activate")
	}
}

type commandOptions struct {
	force bool
	email string
}

func parseCommand(command string, args []string, stderr io.Writer) (commandOptions, error) {
	var opts commandOptions

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch command {
	case "migrate":
	case "seed":
		fs.BoolVar(&opts.force, "force", false, "insert samples even if the catalog is not empty")
	case "activate", "deactivate":
		fs.StringVar(&opts.email, "email", "", "user email")
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return opts, errUsage
	}

	if err := fs.Parse(args); err != nil {
		return opts, errUsage
	}
	if (command == "activate" || command == "deactivate") && opts.email == "" {
		fmt.Fprintf(stderr, "%s: -email is required\n", command)
		return opts, errUsage
	}
	return opts, nil
}

func setActive(ctx context.Context, users user.Service, email string, active bool) error {
	found, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", email, err)
	}

	if err := users.SetActive(ctx, found.ID, active); err != nil {
		return fmt.Errorf("failed to update user %s: %w", email, err)
	}

	log.Info().Int64("user_id", found.ID).Bool("is_active", active).Msg("User updated")
	return nil
}
