package db

import (
	"github.com/pkg/errors"

	"github.com/spigell/lp-recommender/internal/store"
	"github.com/spigell/lp-recommender/internal/store/db/postgres"
	"github.com/spigell/lp-recommender/internal/store/db/sqlite"
)

// NewDBDriver creates new db driver based on the driver name.
func NewDBDriver(driver, dsn string) (store.Driver, error) {
	var d store.Driver
	var err error

	switch driver {
	case "sqlite":
		d, err = sqlite.NewDB(dsn)
	case "postgres":
		d, err = postgres.NewDB(dsn)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return d, nil
}
