package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "dev")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_JWT_SECRET", "secret")
	t.Setenv("STOREFRONT_JWT_ISSUER", "storefront")
	t.Setenv("STOREFRONT_MONGO_URI", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "dev")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_JWT_SECRET", "secret")
	t.Setenv("STOREFRONT_JWT_ISSUER", "storefront")
	t.Setenv("STOREFRONT_MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDev())
	assert.False(t, cfg.App.IsProd())
	assert.Equal(t, "storefront", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Minute, cfg.Orders.CancelWindow)
	assert.Equal(t, 7*24*time.Hour, cfg.Orders.EstimatedDeliveryLag)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTokenTTL())
}

func TestAdminEmailSetNormalizes(t *testing.T) {
	cfg := AdminConfig{Emails: []string{" Roger@gmail.com", "", "sival@gmail.com "}}

	set := cfg.EmailSet()

	assert.Len(t, set, 2)
	assert.Contains(t, set, "roger@gmail.com")
	assert.Contains(t, set, "sival@gmail.com")
}
