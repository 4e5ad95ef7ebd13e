package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulearn/volunteer-api/config"
)

func TestNewServices_NilDeps(t *testing.T) {
	container := NewServices(nil)
	assert.Nil(t, container.Auth)
	assert.Nil(t, container.Reaper)
}

func TestNewServices_BuildsServiceGraph(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Sanitize()

	container := NewServices(&ServiceDeps{Config: cfg})

	require.NotNil(t, container.Auth)
	require.NotNil(t, container.Reaper)
}

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))

	cfg := &config.AppConfig{Services: "http,reaper"}
	assert.NoError(t, ValidateServiceConfig(cfg))

	cfg.Services = "http,bogus"
	assert.Error(t, ValidateServiceConfig(cfg))

	cfg.Services = ""
	assert.Error(t, ValidateServiceConfig(cfg))
}

func TestGetEnabledServices(t *testing.T) {
	assert.Empty(t, GetEnabledServices(nil))

	cfg := &config.AppConfig{Services: "reaper"}
	assert.Equal(t, []string{"reaper"}, GetEnabledServices(cfg))

	cfg.Services = "bogus"
	assert.Empty(t, GetEnabledServices(cfg))
}
