package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/database"
	"github.com/Astemirdum/library-management/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: database.DB{
			Driver: database.DriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1&_txlock=immediate", uuid.NewString()),
		},
		Auth: auth.Config{Secret: "admin-secret"},
		Log:  logger.Log{LogLevel: zapcore.ErrorLevel},
	}
}

func TestCreateLibrarian(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  string
	}{
		{
			name:     "ok",
			username: "  headlib ",
			email:    "Head@Library.com",
			password: "secret123",
		},
		{
			name:     "empty email",
			username: "headlib",
			password: "secret123",
			wantErr:  "validation failed: email is required",
		},
		{
			name:     "short password",
			username: "headlib",
			email:    "head@library.com",
			password: "123",
			wantErr:  "validation failed: password must be at least 6 characters",
		},
		{
			name:     "whitespace username",
			username: "    ",
			email:    "head@library.com",
			password: "secret123",
			wantErr:  "validation failed: username is required",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := CreateLibrarian(context.Background(), testConfig(), tt.username, tt.email, tt.password)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				require.Zero(t, id)
				return
			}
			require.NoError(t, err)
			require.Positive(t, id)
		})
	}
}
