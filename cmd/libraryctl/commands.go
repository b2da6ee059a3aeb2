package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/Astemirdum/library-management/library/app"
	"github.com/Astemirdum/library-management/library/config"
)

type globalFlags struct {
	driver  string
	dsn     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:          "libraryctl",
		Short:        "Administrative tasks for the library service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.driver, "driver", "", "database driver (sqlite3|postgres), defaults to DB_DRIVER")
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "database DSN, defaults to DB_DSN")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newMigrateCmd(&flags),
		newSeedCmd(&flags),
		newCreateLibrarianCmd(&flags),
	)
	return root
}

func loadConfig(flags *globalFlags) *config.Config {
	_ = godotenv.Load()
	if os.Getenv("JWT_SECRET") == "" {
		// admin commands never issue tokens
		_ = os.Setenv("JWT_SECRET", "libraryctl")
	}
	opts := make([]config.Option, 0, 2)
	if flags.verbose {
		opts = append(opts, config.WithLogLevel(zapcore.DebugLevel))
	}
	cfg := config.NewConfig(opts...)
	db := cfg.Database
	if flags.driver != "" {
		db.Driver = flags.driver
	}
	if flags.dsn != "" {
		db.DSN = flags.dsn
	}
	config.WithDatabase(db)(cfg)
	return cfg
}

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|redo|reset|status|version]",
		Short:     "Run schema migrations",
		Args:      cobra.RangeArgs(0, 2),
		ValidArgs: []string{"up", "down", "redo", "reset", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			var rest []string
			if len(args) > 1 {
				rest = args[1:]
			}
			return app.Migrate(cmd.Context(), loadConfig(flags), command, rest...)
		},
	}
}

func newSeedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample books unless they already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.SeedSampleBooks(cmd.Context(), loadConfig(flags)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sample books seeded")
			return nil
		},
	}
}

func newCreateLibrarianCmd(flags *globalFlags) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "create-librarian",
		Short: "Create a librarian account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			id, err := app.CreateLibrarian(cmd.Context(), loadConfig(flags), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "librarian %q created with id %d\n", username, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword masks input on a terminal and reads one line from a pipe otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		return strings.TrimSpace(string(b)), nil
	}
	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return strings.TrimSpace(line), nil
}
