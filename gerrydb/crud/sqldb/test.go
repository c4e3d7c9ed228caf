package sqldb

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/peterrrock2/gerrydb-meta/gerrydb/crud"
)

func EnvOr(envName, defaultVal string) string {
	val, ok := os.LookupEnv(envName)
	if !ok {
		return defaultVal
	}
	return val
}

func GetTestConfig() *crud.SQLDBConfig {
	return &crud.SQLDBConfig{
		Dialect:  "postgres",
		Database: EnvOr("GERRYDB_META_CONFIG_SQLDB_DATABASE", "gerrydb_test"),
		Host:     EnvOr("GERRYDB_META_CONFIG_SQLDB_HOST", "127.0.0.1"),
		Port:     EnvOr("GERRYDB_META_CONFIG_SQLDB_PORT", "5432"),
		User:     EnvOr("GERRYDB_META_CONFIG_SQLDB_USER", "postgres"),
		Password: EnvOr("GERRYDB_META_CONFIG_SQLDB_PASSWORD", "testpass"),
	}
}

func GetTestConfigRandomDB(dbprefix string) *crud.SQLDBConfig {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &crud.SQLDBConfig{
		Dialect:  "postgres",
		Database: fmt.Sprintf("%s_%d", dbprefix, rnd.Int()),
		Host:     EnvOr("GERRYDB_META_CONFIG_SQLDB_HOST", "127.0.0.1"),
		Port:     EnvOr("GERRYDB_META_CONFIG_SQLDB_PORT", "5432"),
		User:     EnvOr("GERRYDB_META_CONFIG_SQLDB_USER", "postgres"),
		Password: EnvOr("GERRYDB_META_CONFIG_SQLDB_PASSWORD", "testpass"),
	}
}
