// Package cli implements the orderctl commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/client"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/config"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// TokenEnv names the environment variable read when --token is not set.
const TokenEnv = "ORDERCTL_TOKEN"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Address    string
	Token      string
	Login      string
	Password   string
	Language   string
	Format     string // "json" | "text"
	Timeout    time.Duration
	Verbose    bool

	config *config.Config
	logger logger.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for orderctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "orderctl",
		Short: "Flower shop back office order control",
		Long: `Read orders and change their status through the back office API.

Status changes are optimistic: the new value is shown at once and rolled
back with a notice if the server does not confirm it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "./config/local.yml", "path to the config file")
	cmd.PersistentFlags().StringVarP(&opts.Address, "address", "a", "", "order API address (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "authorization token (default $"+TokenEnv+")")
	cmd.PersistentFlags().StringVar(&opts.Login, "login", "", "log in with this login when no token is given")
	cmd.PersistentFlags().StringVar(&opts.Password, "password", "", "password for --login")
	cmd.PersistentFlags().StringVar(&opts.Language, "lang", "", "notice language, e.g. vi or en (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 0, "per request timeout (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")

	// Add subcommands
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSetStatusCommand(opts))

	return cmd
}

func (opts *RootOptions) init() error {
	// Validate format flag
	if !slices.Contains(ValidFormats, opts.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Explicit flags win.
	if opts.Address != "" {
		cfg.OrderAPI.Address = opts.Address
	}
	if opts.Language != "" {
		cfg.Notice.Language = opts.Language
	}
	if opts.Timeout > 0 {
		cfg.OrderAPI.Timeout = opts.Timeout
	}
	if opts.Token == "" {
		opts.Token = os.Getenv(TokenEnv)
	}

	opts.config = cfg
	opts.logger = logger.NewWithZap(zap.NewNop())
	if opts.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		opts.logger = logger.NewWithZap(l)
	}

	return nil
}

// session returns an API client and the credential to use with it.
func (opts *RootOptions) session(ctx context.Context) (*client.OrderAPI, user.Credential, error) {
	api, err := client.New(opts.config, opts.logger)
	if err != nil {
		return nil, user.Credential{}, err
	}

	if opts.Token != "" {
		return api, user.Credential{Token: opts.Token}, nil
	}

	if opts.Login == "" {
		return nil, user.Credential{}, fmt.Errorf("no credential: pass --token, set $%s or use --login", TokenEnv)
	}

	cred, err := api.Login(ctx, opts.Login, opts.Password)
	if err != nil {
		return nil, user.Credential{}, fmt.Errorf("log in as %q: %w", opts.Login, err)
	}

	return api, cred, nil
}
