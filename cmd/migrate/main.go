// Command migrate manages the postgres schema.
//
//	migrate up
//	migrate step -1
//	migrate create add_projects "Project header table"
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/erp/suite/internal/infrastructure/logger"
	"github.com/erp/suite/internal/infrastructure/migration"
	"github.com/erp/suite/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	configFile string
	dir        string
	logLevel   string

	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "ERP database migration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      c.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = logger.Sync(c.log)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ./config.toml if present)")
	flags.StringVar(&c.dir, "path", "", "read migrations from this directory instead of the embedded set")
	flags.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		c.migratorCmd("up", "Apply all pending migrations", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			return m.Up()
		}),
		c.migratorCmd("down", "Roll back all migrations", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			return m.Down()
		}),
		c.migratorCmd("step <n>", "Apply n migrations (negative rolls back)", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		}),
		c.migratorCmd("goto <version>", "Migrate to a specific version", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(v))
		}),
		c.migratorCmd("version", "Show the applied version", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			st, err := m.Status()
			if err != nil {
				return err
			}
			c.log.Info("Current migration version", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
			return nil
		}),
		c.migratorCmd("force <version>", "Set the version without running migrations", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.Force(v)
		}),
		c.createCmd(),
		c.listCmd(),
	)
	return root
}

// migratorCmd builds a subcommand that needs a database connection
func (c *cli) migratorCmd(use, short string, args cobra.PositionalArgs, run func(*migration.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeDB, err := c.openMigrator()
			if err != nil {
				return err
			}
			defer closeDB()
			defer func() {
				if err := m.Close(); err != nil {
					c.log.Warn("Failed to close migrator", zap.Error(err))
				}
			}()
			return run(m, args)
		},
	}
}

func (c *cli) openMigrator() (*migration.Migrator, func(), error) {
	cfg, err := config.LoadFrom(c.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		return nil, nil, fmt.Errorf("sqlite databases are created with AutoMigrate; migrations target postgres")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var m *migration.Migrator
	if c.dir != "" {
		m, err = migration.NewFromDir(db, c.dir, c.log)
	} else {
		m, err = migration.New(db, migrations.FS, c.log)
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() { _ = db.Close() }, nil
}

func (c *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create the next up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.dir
			if dir == "" {
				dir = "migrations"
			}
			desc := ""
			if len(args) > 1 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], desc)
			if err != nil {
				return err
			}
			c.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := migrations.FS
			var list []migration.Migration
			var err error
			if c.dir != "" {
				list, err = migration.ListMigrations(os.DirFS(c.dir))
			} else {
				list, err = migration.ListMigrations(src)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range list {
				status := ""
				if !m.HasDown {
					status = " (missing down)"
				}
				fmt.Fprintf(out, "%06d  %s%s\n", m.Version, m.Name, status)
			}
			return nil
		},
	}
}
