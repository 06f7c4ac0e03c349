package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.Checkout.ReadTimeout)
	assert.Equal(t, 72*time.Hour, cfg.Redis.TTL())
	assert.Equal(t, time.UTC, cfg.App.Location())
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("DB_PORT", "6543")
	v.Set("CHECKOUT_COMMIT_TIMEOUT", "3s")
	v.Set("APP_TIMEZONE", "America/Sao_Paulo")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 3*time.Second, cfg.Checkout.CommitTimeout)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Location().String())
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "firestore")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "caja", Password: "p@ss:w/rd", DBName: "caja", SSLMode: "disable"}
	assert.Equal(t, "postgres://caja:p%40ss%3Aw%2Frd@db:5432/caja?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
