package database

import (
	"context"
	"testing"

	"cafehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_UsesContextTransaction(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, AutoMigrate(db))

	ctx := context.Background()
	_, ok := TxFromContext(ctx)
	assert.False(t, ok)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	txCtx := WithTx(ctx, tx)

	got, ok := TxFromContext(txCtx)
	require.True(t, ok)
	assert.Same(t, tx, got)

	require.NoError(t, Conn(txCtx, db).Create(&models.City{Code: "sf", Name: "San Francisco", State: "CA"}).Error)
	require.NoError(t, tx.Rollback().Error)

	var count int64
	require.NoError(t, Conn(ctx, db).Model(&models.City{}).Count(&count).Error)
	assert.Zero(t, count, "rolled back write must not be visible")
}
