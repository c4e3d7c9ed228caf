// Command gerrydb-meta manages the metadata store's database schema.
package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud/sqldb"
	"github.com/peterrrock2/gerrydb-meta/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "gerrydb-meta",
		Short: "Namespaced, versioned metadata store for districting objects",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a toml config file")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			log := logger.StderrLogger

			trans, err := sqldb.Connect(cfg)
			if err != nil {
				return err
			}
			if err := trans.Start(); err != nil {
				return err
			}
			defer trans.Close()

			log.Infof("applying migrations to %s", cfg.Database)
			return sqldb.MigrateUp(trans)
		},
	}
	root.AddCommand(migrate)

	return root
}

// loadConfig reads the toml config file, if given, and applies environment
// overrides on top of it.
func loadConfig(path string) (*crud.SQLDBConfig, error) {
	cfg := crud.NewSQLDBConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := toml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	}

	cfg.Database = sqldb.EnvOr("GERRYDB_META_CONFIG_SQLDB_DATABASE", cfg.Database)
	cfg.Host = sqldb.EnvOr("GERRYDB_META_CONFIG_SQLDB_HOST", cfg.Host)
	cfg.Port = sqldb.EnvOr("GERRYDB_META_CONFIG_SQLDB_PORT", cfg.Port)
	cfg.User = sqldb.EnvOr("GERRYDB_META_CONFIG_SQLDB_USER", cfg.User)
	cfg.Password = sqldb.EnvOr("GERRYDB_META_CONFIG_SQLDB_PASSWORD", cfg.Password)
	cfg.URL = sqldb.EnvOr("GERRYDB_META_CONFIG_SQLDB_URL", cfg.URL)

	return cfg, nil
}
