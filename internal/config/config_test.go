package config_test

import (
	"testing"
	"time"

	"go-leave/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PTO_ANNUAL_ALLOCATION", "")
		t.Setenv("LEAVE_BLOCK_ON_TEAM_CONFLICT", "")
		t.Setenv("HOLIDAY_SYNC_INTERVAL", "")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, 25, cfg.AnnualAllocation)
		assert.False(t, cfg.BlockOnTeamConflict)
		assert.Equal(t, 24*time.Hour, cfg.HolidaySyncInterval)
		assert.Equal(t, "https://date.nager.at/api/v3", cfg.HolidayProviderURL)
	})

	t.Run("blocking policy enabled", func(t *testing.T) {
		t.Setenv("LEAVE_BLOCK_ON_TEAM_CONFLICT", "yes")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.True(t, cfg.BlockOnTeamConflict)
	})

	t.Run("negative invalid allocation", func(t *testing.T) {
		t.Setenv("PTO_ANNUAL_ALLOCATION", "-3")

		_, err := config.Load()

		assert.Error(t, err)
	})

	t.Run("negative invalid sync interval", func(t *testing.T) {
		t.Setenv("HOLIDAY_SYNC_INTERVAL", "daily")

		_, err := config.Load()

		assert.Error(t, err)
	})
}
