package database

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"testing"
	"time"

	"surveyapi/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	base := config.DatabaseConfig{Host: "db", Port: "5432", User: "survey", Name: "surveys"}

	tests := []struct {
		name     string
		mutate   func(c *config.DatabaseConfig)
		wantUser string
		wantSSL  string
		wantErr  bool
	}{
		{name: "password and sslmode", mutate: func(c *config.DatabaseConfig) { c.Password = "p@ss"; c.SSLMode = "disable" }, wantUser: "survey:p%40ss", wantSSL: "disable"},
		{name: "no password", mutate: func(c *config.DatabaseConfig) { c.SSLMode = "require" }, wantUser: "survey", wantSSL: "require"},
		{name: "driver default sslmode", mutate: func(c *config.DatabaseConfig) {}, wantUser: "survey"},
		{name: "missing host", mutate: func(c *config.DatabaseConfig) { c.Host = "" }, wantErr: true},
		{name: "missing port", mutate: func(c *config.DatabaseConfig) { c.Port = "" }, wantErr: true},
		{name: "missing user", mutate: func(c *config.DatabaseConfig) { c.User = "" }, wantErr: true},
		{name: "missing name", mutate: func(c *config.DatabaseConfig) { c.Name = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)

			got, err := BuildPostgresDSN(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			u, err := url.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, "db:5432", u.Host)
			assert.Equal(t, "/surveys", u.Path)
			assert.Equal(t, tt.wantUser, u.User.String())
			assert.Equal(t, ApplicationName, u.Query().Get("application_name"))
			assert.Equal(t, tt.wantSSL, u.Query().Get("sslmode"))
		})
	}
}

// stubOpen makes NewPostgres use db instead of dialing.
func stubOpen(t *testing.T, db *sql.DB, err error) {
	t.Helper()
	orig := sqlOpen
	sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
		return db, err
	}
	t.Cleanup(func() { sqlOpen = orig })
}

func TestNewPostgres(t *testing.T) {
	conf := config.DatabaseConfig{
		Host:               "db",
		Port:               "5432",
		User:               "survey",
		Password:           "pass",
		Name:               "surveys",
		MaxOpenConns:       10,
		MaxIdleConns:       5,
		ConnMaxLifetimeSec: 300,
		ConnMaxIdleTime:    time.Minute,
		ConnectRetries:     2,
		ConnectBackoff:     time.Millisecond,
	}

	t.Run("ready on first ping", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		stubOpen(t, db, nil)

		mock.ExpectPing()

		got, err := NewPostgres(context.Background(), conf)
		require.NoError(t, err)
		assert.Same(t, db, got)
		assert.Equal(t, 10, got.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("server comes up during retries", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		stubOpen(t, db, nil)

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing().WillReturnError(errors.New("the database system is starting up"))
		mock.ExpectPing()

		got, err := NewPostgres(context.Background(), conf)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after retries", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, db, nil)

		for i := 0; i <= conf.ConnectRetries; i++ {
			mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		}
		mock.ExpectClose()

		got, err := NewPostgres(context.Background(), conf)
		assert.ErrorContains(t, err, "db ping: connection refused")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, db, nil)

		ctx, cancel := context.WithCancel(context.Background())
		slow := conf
		slow.ConnectBackoff = time.Hour

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()
		time.AfterFunc(10*time.Millisecond, cancel)

		got, err := NewPostgres(ctx, slow)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, got)
	})

	t.Run("sql open error", func(t *testing.T) {
		stubOpen(t, nil, errors.New("open error"))

		got, err := NewPostgres(context.Background(), conf)
		assert.ErrorContains(t, err, "sql open: open error")
		assert.Nil(t, got)
	})

	t.Run("invalid config", func(t *testing.T) {
		got, err := NewPostgres(context.Background(), config.DatabaseConfig{})
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
