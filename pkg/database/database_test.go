package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testMigrations = fstest.MapFS{
	"sqlite/00001_notes.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL);

-- +goose Down
DROP TABLE notes;
`)},
}

func TestNewDB_MigrationsLogThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	db, err := NewDB(context.Background(), &DB{
		Driver: DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, testMigrations, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO notes (body) VALUES ('hello')`)
	require.NoError(t, err)

	gooseLogs := logs.FilterLoggerName("goose").All()
	require.NotEmpty(t, gooseLogs)
	var migrated bool
	for _, entry := range gooseLogs {
		require.False(t, strings.HasSuffix(entry.Message, "\n"))
		if strings.Contains(entry.Message, "successfully migrated") {
			migrated = true
		}
	}
	require.True(t, migrated)
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB(context.Background(), &DB{Driver: "mysql"}, nil, nil)
	require.EqualError(t, err, `unsupported db driver "mysql"`)
}
