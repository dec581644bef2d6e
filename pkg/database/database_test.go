package database

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("in-memory sqlite", func(t *testing.T) {
		db, err := New(WithMaxOpenConns(1))
		require.NoError(t, err)
		defer db.Close()

		var one int
		require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
		assert.Equal(t, 1, one)
		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})

	t.Run("in-memory sqlite is shared across pooled connections", func(t *testing.T) {
		db, err := New()
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec("CREATE TABLE rated_entities (id TEXT PRIMARY KEY)")
		require.NoError(t, err)

		ctx := context.Background()
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rated_entities").Scan(&n))
		assert.Equal(t, 0, n)
	})

	t.Run("separate in-memory pools do not share tables", func(t *testing.T) {
		a, err := New()
		require.NoError(t, err)
		defer a.Close()
		b, err := New()
		require.NoError(t, err)
		defer b.Close()

		_, err = a.Exec("CREATE TABLE only_in_a (id INTEGER)")
		require.NoError(t, err)
		_, err = b.Exec("SELECT * FROM only_in_a")
		assert.ErrorContains(t, err, "no such table")
	})

	t.Run("empty driver", func(t *testing.T) {
		_, err := New(WithDriver(""))
		assert.EqualError(t, err, "database driver cannot be empty")
	})

	t.Run("empty data source", func(t *testing.T) {
		_, err := New(WithDataSource(""))
		assert.EqualError(t, err, "database data source cannot be empty")
	})

	t.Run("unknown driver exhausts retries", func(t *testing.T) {
		_, err := New(WithDriver("nope"), WithRetry(2, time.Millisecond))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 attempts")
	})
}

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "sqlite busy timeout",
			opts: Options{Driver: "sqlite3", DataSource: "./data/ratings.db", SQLiteBusyTimeout: 5 * time.Second},
			want: "./data/ratings.db?_busy_timeout=5000",
		},
		{
			name: "sqlite keeps existing params",
			opts: Options{Driver: "sqlite3", DataSource: "file:ratings.db?cache=shared", SQLiteBusyTimeout: time.Second},
			want: "file:ratings.db?cache=shared&_busy_timeout=1000",
		},
		{
			name: "sqlite caller timeout wins",
			opts: Options{Driver: "sqlite3", DataSource: "r.db?_busy_timeout=10", SQLiteBusyTimeout: time.Second},
			want: "r.db?_busy_timeout=10",
		},
		{
			name: "sqlite timeout disabled",
			opts: Options{Driver: "sqlite3", DataSource: ":memory:"},
			want: ":memory:",
		},
		{
			name: "mysql",
			opts: Options{Driver: "mysql", DataSource: "user:pw@tcp(localhost:3306)/ratings"},
			want: "user:pw@tcp(localhost:3306)/ratings?parseTime=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataSourceName(&tt.opts))
		})
	}
}

func TestShareInMemorySQLite(t *testing.T) {
	o := Options{Driver: "sqlite3", DataSource: ":memory:", ConnMaxLifetime: time.Minute, ConnMaxIdleTime: time.Minute}
	shareInMemorySQLite(&o)

	assert.Contains(t, o.DataSource, "mode=memory&cache=shared")
	assert.Zero(t, o.ConnMaxLifetime)
	assert.Zero(t, o.ConnMaxIdleTime)
	assert.Equal(t, 1, o.MaxIdleConns)

	file := Options{Driver: "sqlite3", DataSource: "./data/ratings.db", ConnMaxIdleTime: time.Minute}
	shareInMemorySQLite(&file)
	assert.Equal(t, "./data/ratings.db", file.DataSource)
	assert.Equal(t, time.Minute, file.ConnMaxIdleTime)
}
