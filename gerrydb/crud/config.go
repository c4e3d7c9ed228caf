package crud

import "time"

// SQLDBConfig holds the connection settings for the SQL database backing the
// store. If URL is set it takes precedence over the individual fields.
type SQLDBConfig struct {
	Dialect  string `toml:"dialect"`
	Database string `toml:"database"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	URL      string `toml:"url"`

	Pool            int           `toml:"pool"`
	IdlePool        int           `toml:"idle-pool"`
	ConnMaxLifetime time.Duration `toml:"conn-max-lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn-max-idle-time"`
}

// NewSQLDBConfig returns a config with the default Postgres settings.
func NewSQLDBConfig() *SQLDBConfig {
	return &SQLDBConfig{
		Dialect: "postgres",
		Host:    "localhost",
		Port:    "5432",
	}
}
