// Package arcanumctl parses CLI flags and runs client commands against the
// Arcanum backend.
package arcanumctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	arcanum "github.com/arcanumlarp/arcanum-go"
	"github.com/arcanumlarp/arcanum-go/internal/platform/config"
	apperrors "github.com/arcanumlarp/arcanum-go/internal/platform/errors"
	"github.com/arcanumlarp/arcanum-go/internal/platform/errors/i18n"
	"github.com/arcanumlarp/arcanum-go/internal/platform/otel"
)

// Config holds arcanumctl configuration.
type Config struct {
	BaseURL string `env:"ARCANUM_BASE_URL"`
	Token   string `env:"ARCANUM_TOKEN"`
	Locale  string `env:"ARCANUM_LOCALE" envDefault:"en-US"`

	// Command is the subcommand to run; Args are its positional arguments.
	Command string
	Args    []string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "The backend base URL")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "The bearer token for the session")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "The locale for rendered messages")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.Args = rest[1:]
	}
	return cfg, nil
}

// Run executes the configured subcommand, writing human output to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	shutdown, err := otel.Setup(ctx, "arcanumctl")
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	client, err := arcanum.NewClient(arcanum.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Locale:  cfg.Locale,
	})
	if err != nil {
		return renderErr(cfg.Locale, err)
	}

	switch cfg.Command {
	case "sheet":
		err = runSheet(ctx, client, cfg.Args, out)
	case "stat":
		err = runStat(ctx, client, cfg.Args, out)
	case "queue":
		err = runQueue(ctx, client, cfg.Args, out)
	case "collect":
		err = runCollect(ctx, client, cfg.Args, out)
	case "shop":
		err = runShop(ctx, client, out)
	case "":
		return fmt.Errorf("usage: arcanumctl [flags] <sheet|stat|queue|collect|shop> [args]")
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
	return renderErr(cfg.Locale, err)
}

// renderErr rewrites domain errors through the locale catalog so the
// terminal shows the translated message rather than the internal one.
func renderErr(locale string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return err
	}
	catalog := i18n.GetCatalog(locale)
	return fmt.Errorf("%s", catalog.Format(string(appErr.Code), appErr.Metadata))
}

func parseID(args []string, idx int, name string) (int64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return id, nil
}
