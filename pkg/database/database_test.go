package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestBuildDialector(t *testing.T) {
	cfg := Config{Host: "db", Port: "3306", User: "u", Password: "p", Name: "hooks"}

	t.Run("defaults to mysql", func(t *testing.T) {
		d, err := buildDialector(cfg)
		require.NoError(t, err)
		assert.Equal(t, "mysql", d.Name())
	})

	t.Run("postgres", func(t *testing.T) {
		pg := cfg
		pg.Driver = DriverPostgres
		d, err := buildDialector(pg)
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("unknown driver", func(t *testing.T) {
		bad := cfg
		bad.Driver = "oracle"
		_, err := buildDialector(bad)
		assert.Error(t, err)
	})
}

func TestBuildDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "u", Password: "p", Name: "hooks"}

	assert.Equal(t, "u:p@tcp(db:5432)/hooks?charset=utf8mb4&parseTime=True&loc=UTC", buildMySQLDSN(cfg))
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=hooks sslmode=disable TimeZone=UTC",
		buildPostgresDSN(cfg))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormLogger.Info, parseLogLevel("INFO"))
	assert.Equal(t, gormLogger.Warn, parseLogLevel(""))
}
