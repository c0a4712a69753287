package common

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	db := TestDB("file://../../migrations", t)

	insert := func(tx *sql.Tx, username string) error {
		_, err := tx.Exec("INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)", NewID(), username, []byte("hash"))
		return err
	}

	count := func() int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
			return insert(tx, "committed")
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on error", func(t *testing.T) {
		errBoom := errors.New("boom")
		err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
			if err := insert(tx, "rolledback"); err != nil {
				return err
			}
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = WithTx(context.Background(), db, func(tx *sql.Tx) error {
				if err := insert(tx, "panicked"); err != nil {
					return err
				}
				panic("boom")
			})
		})
		assert.Equal(t, 1, count())
	})
}
