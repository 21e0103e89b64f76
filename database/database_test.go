package database

import (
	"path/filepath"
	"testing"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
	sqlite "github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers/sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfig(t *testing.T) {
	t.Parallel()
	var i *Instance
	assert.ErrorIs(t, i.SetConfig(&Config{}), errNilInstance)
	i = &Instance{}
	assert.ErrorIs(t, i.SetConfig(nil), errNilConfig)
	assert.ErrorIs(t, i.SetConfig(&Config{Driver: "mssql"}), ErrUnsupportedDriver)
	require.NoError(t, i.SetConfig(&Config{Driver: DBSQLite3}), "SetConfig must not error")
	assert.Equal(t, DBSQLite3, i.Dialect())
	assert.Equal(t, DBSQLite3, i.GetConfig().Driver)
}

func TestSQLiteLifecycle(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Enabled: true,
		Driver:  DBSQLite3,
		ConnectionDetails: drivers.ConnectionDetails{
			Database: filepath.Join(t.TempDir(), "bars.db"),
		},
	}
	i, err := NewInstance(cfg)
	require.NoError(t, err, "NewInstance must not error")
	assert.False(t, i.IsConnected())
	_, err = i.GetSQL()
	assert.ErrorIs(t, err, ErrDatabaseSupportDisabled)
	assert.ErrorIs(t, i.Ping(), errNilSQL)

	con, err := sqlite.Connect(&cfg.ConnectionDetails)
	require.NoError(t, err, "Connect must not error")
	assert.ErrorIs(t, i.SetSQLiteConnection(nil), errNilSQL)
	require.NoError(t, i.SetSQLiteConnection(con), "SetSQLiteConnection must not error")
	assert.True(t, i.IsConnected())
	require.NoError(t, i.Ping(), "Ping must not error")

	db, err := i.GetSQL()
	require.NoError(t, err, "GetSQL must not error")
	assert.Equal(t, con, db)

	require.NoError(t, i.CloseConnection(), "CloseConnection must not error")
	assert.False(t, i.IsConnected())
}
