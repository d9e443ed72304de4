package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: invalid connection string")
	ErrFailedToOpenDBConnection = errors.New("db: database did not answer")
	ErrHealthcheckFailed        = errors.New("db: ping failed")
	ErrMigrationSetup           = errors.New("db: migration setup failed")
	ErrApplyMigrations          = errors.New("db: applying migrations failed")
)
