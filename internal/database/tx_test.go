package database

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromContext(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	assert.Nil(t, TransactionFromContext(ctx))
	assert.NotNil(t, FromContext(ctx, db))

	err = db.Transaction(func(tx *gorm.DB) error {
		txCtx := ContextWithTransaction(ctx, tx)
		assert.Same(t, tx, TransactionFromContext(txCtx))
		assert.Same(t, tx, FromContext(txCtx, db))
		return nil
	})
	require.NoError(t, err)
}
