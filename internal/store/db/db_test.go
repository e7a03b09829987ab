package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDBDriver(t *testing.T) {
	_, err := NewDBDriver("mysql", "root@/db")
	require.ErrorContains(t, err, "unknown db driver")

	_, err = NewDBDriver("sqlite", "")
	require.ErrorContains(t, err, "dsn required")

	driver, err := NewDBDriver("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, driver.Close())
}
