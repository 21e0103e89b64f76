package database

import (
	"database/sql"
	"time"
)

// NewInstance returns a disconnected database instance using the supplied config
func NewInstance(cfg *Config) (*Instance, error) {
	i := &Instance{}
	if err := i.SetConfig(cfg); err != nil {
		return nil, err
	}
	return i, nil
}

// SetConfig safely sets the database instance's config with some
// basic locks and checks
func (i *Instance) SetConfig(cfg *Config) error {
	if i == nil {
		return errNilInstance
	}
	if cfg == nil {
		return errNilConfig
	}
	if cfg.Driver != DBSQLite3 && cfg.Driver != DBPostgreSQL {
		return ErrUnsupportedDriver
	}
	i.m.Lock()
	i.config = cfg
	i.m.Unlock()
	return nil
}

// SetSQLiteConnection safely sets the database instance's connection
// to use SQLite
func (i *Instance) SetSQLiteConnection(con *sql.DB) error {
	if i == nil {
		return errNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(1)
	i.connected = true
	return nil
}

// SetPostgresConnection safely sets the database instance's connection
// to use Postgres
func (i *Instance) SetPostgresConnection(con *sql.DB) error {
	if i == nil {
		return errNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	if err := con.Ping(); err != nil {
		return err
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(2)
	i.SQL.SetMaxIdleConns(1)
	i.SQL.SetConnMaxLifetime(time.Hour)
	i.connected = true
	return nil
}

// CloseConnection safely disconnects the database instance
func (i *Instance) CloseConnection() error {
	if i == nil {
		return errNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	if i.SQL == nil {
		return errNilSQL
	}
	i.connected = false
	return i.SQL.Close()
}

// IsConnected safely checks the SQL connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// GetConfig safely returns a copy of the config
func (i *Instance) GetConfig() *Config {
	i.m.RLock()
	defer i.m.RUnlock()
	if i.config == nil {
		return nil
	}
	cpy := *i.config
	return &cpy
}

// Dialect returns the configured driver name
func (i *Instance) Dialect() string {
	if i == nil {
		return ""
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.config == nil {
		return ""
	}
	return i.config.Driver
}

// Ping pings the database
func (i *Instance) Ping() error {
	if i == nil {
		return errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.SQL == nil {
		return errNilSQL
	}
	return i.SQL.Ping()
}

// GetSQL returns the underlying connection when connected
func (i *Instance) GetSQL() (*sql.DB, error) {
	if i == nil {
		return nil, errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if !i.connected || i.SQL == nil {
		return nil, ErrDatabaseSupportDisabled
	}
	return i.SQL, nil
}
