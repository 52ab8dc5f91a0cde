package txmanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/db"
	dbtx "supportbot/db/tx"
	"supportbot/models"
	"supportbot/testutils"
)

func setupTransactionTest(t *testing.T) (*TransactionManager, *db.PostgresGuildConfigsRepository, *db.PostgresFormsRepository, *models.GuildConfig) {
	conn, schema := testutils.OpenTestDB(t)

	guildsRepo := db.NewPostgresGuildConfigsRepository(conn, schema)
	formsRepo := db.NewPostgresFormsRepository(conn, schema)
	guild := testutils.CreateTestGuildConfig(t, guildsRepo)

	return NewTransactionManager(conn), guildsRepo, formsRepo, guild
}

func TestTransactionManager_WithTransaction_Commits(t *testing.T) {
	txManager, _, formsRepo, guild := setupTransactionTest(t)
	ctx := context.Background()

	form := &models.Form{ID: core.NewID("frm"), GuildID: guild.GuildID, Name: "commit"}
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		_, ok := dbtx.TransactionFromContext(txCtx)
		assert.True(t, ok)
		return formsRepo.CreateForm(txCtx, form)
	})
	require.NoError(t, err)

	got, err := formsRepo.GetFormByID(ctx, guild.GuildID, form.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPresent())
}

func TestTransactionManager_WithTransaction_RollsBackOnError(t *testing.T) {
	txManager, _, formsRepo, guild := setupTransactionTest(t)
	ctx := context.Background()

	form := &models.Form{ID: core.NewID("frm"), GuildID: guild.GuildID, Name: "rollback"}
	boom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, formsRepo.CreateForm(txCtx, form))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := formsRepo.GetFormByID(ctx, guild.GuildID, form.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
}

func TestTransactionManager_WithTransaction_RollsBackOnPanic(t *testing.T) {
	txManager, _, formsRepo, guild := setupTransactionTest(t)
	ctx := context.Background()

	form := &models.Form{ID: core.NewID("frm"), GuildID: guild.GuildID, Name: "panic"}
	assert.Panics(t, func() {
		_ = txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			require.NoError(t, formsRepo.CreateForm(txCtx, form))
			panic("boom")
		})
	})

	got, err := formsRepo.GetFormByID(ctx, guild.GuildID, form.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
}

func TestTransactionManager_WithTransaction_NestedJoinsOuter(t *testing.T) {
	txManager, _, formsRepo, guild := setupTransactionTest(t)
	ctx := context.Background()

	inner := &models.Form{ID: core.NewID("frm"), GuildID: guild.GuildID, Name: "nested"}
	boom := errors.New("outer failed")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		err := txManager.WithTransaction(txCtx, func(innerCtx context.Context) error {
			return formsRepo.CreateForm(innerCtx, inner)
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := formsRepo.GetFormByID(ctx, guild.GuildID, inner.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent(), "inner write must roll back with the outer transaction")
}

func TestTransactionManager_WithTransaction_RetriesSerializationFailure(t *testing.T) {
	txManager, _, formsRepo, guild := setupTransactionTest(t)
	txManager.newBackoff = func() *backoff.Backoff { return &backoff.Backoff{Min: time.Millisecond, Max: time.Millisecond} }
	ctx := context.Background()

	form := &models.Form{ID: core.NewID("frm"), GuildID: guild.GuildID, Name: "retried"}
	attempts := 0
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		attempts++
		if err := formsRepo.CreateForm(txCtx, form); err != nil {
			return err
		}
		if attempts == 1 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	got, err := formsRepo.GetFormByID(ctx, guild.GuildID, form.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPresent(), "the first attempt's insert must have been rolled back")
}

func TestTransactionManager_WithTransaction_GivesUpAfterMaxAttempts(t *testing.T) {
	txManager, _, _, _ := setupTransactionTest(t)
	txManager.newBackoff = func() *backoff.Backoff { return &backoff.Backoff{Min: time.Millisecond, Max: time.Millisecond} }

	attempts := 0
	err := txManager.WithTransaction(context.Background(), func(context.Context) error {
		attempts++
		return &pq.Error{Code: "40P01"}
	})
	assert.True(t, db.IsRetryableTxError(err))
	assert.Equal(t, defaultMaxAttempts, attempts)
}

func TestTransactionManager_WithTransaction_DoesNotRetryOtherErrors(t *testing.T) {
	txManager, _, _, _ := setupTransactionTest(t)

	attempts := 0
	err := txManager.WithTransaction(context.Background(), func(context.Context) error {
		attempts++
		return &pq.Error{Code: "23505"}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
