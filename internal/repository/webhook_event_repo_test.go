package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectreach/reach_go_server/internal/testutil"
)

func TestWebhookEventRepository_MarkProcessed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewWebhookEventRepository(db)

	err := repo.MarkProcessed("evt_1", "charge.succeeded")
	require.NoError(t, err)

	exists, err := repo.Exists("evt_1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWebhookEventRepository_MarkProcessed_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewWebhookEventRepository(db)

	require.NoError(t, repo.MarkProcessed("evt_dup", "charge.succeeded"))

	// 同一事件重放必须返回重复错误
	err := repo.MarkProcessed("evt_dup", "charge.succeeded")
	assert.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestWebhookEventRepository_Exists_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewWebhookEventRepository(db)

	exists, err := repo.Exists("evt_missing")
	require.NoError(t, err)
	assert.False(t, exists)
}
