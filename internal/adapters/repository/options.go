package repository

import gormlogger "gorm.io/gorm/logger"

type options struct {
	logLevel     gormlogger.LogLevel
	maxOpenConns int
}

func defaultOptions(driver string) options {
	o := options{logLevel: gormlogger.Error}
	// SQLite allows a single writer; one connection avoids lock errors.
	if driver == DriverSQLite {
		o.maxOpenConns = 1
	}
	return o
}

// Option configures Open.
type Option func(*options)

// WithLogLevel sets gorm's SQL log level.
func WithLogLevel(level gormlogger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// WithMaxOpenConns caps the connection pool. Zero leaves the driver default.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxOpenConns = n
		}
	}
}
