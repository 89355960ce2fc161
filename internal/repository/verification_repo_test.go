package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/models"
)

func TestVerificationRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t, &models.Verification{})
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	older := models.Verification{ID: "verif_older", CustomerID: "cust_1", UserReference: "u1", IDType: "passport", Status: models.StatusPending, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Verification{ID: "verif_newer", CustomerID: "cust_1", UserReference: "u2", IDType: "passport", Status: models.StatusPending, CreatedAt: time.Now()}

	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "verif_newer", listed[0].ID)
	require.Equal(t, "verif_older", listed[1].ID)
}

func TestVerificationRepositoryUpdatePersistsDecisionFields(t *testing.T) {
	db := setupTestDB(t, &models.Verification{})
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	verification := models.Verification{ID: "verif_1", CustomerID: "cust_1", UserReference: "u1", IDType: "passport", Status: models.StatusPending}
	require.NoError(t, repo.Create(ctx, &verification))

	score := 0.82
	reason := "auto-approved"
	completed := time.Now()
	verification.Status = models.StatusApproved
	verification.Score = &score
	verification.DecisionReason = &reason
	verification.CompletedAt = &completed
	require.NoError(t, repo.Update(ctx, &verification))

	reloaded, err := repo.GetByID(ctx, "verif_1")
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.Score)
	require.Equal(t, 0.82, *reloaded.Score)
	require.NotNil(t, reloaded.CompletedAt)
}

func TestVerificationRepositoryGetMissing(t *testing.T) {
	db := setupTestDB(t, &models.Verification{})
	repo := NewVerificationRepository(db)

	_, err := repo.GetByID(context.Background(), "verif_missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuditLogRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t, &models.AuditLog{})
	repo := NewAuditLogRepository(db)
	ctx := context.Background()

	first := models.AuditLog{VerificationID: "verif_1", Action: models.AuditActionAutoDecision, Actor: models.ActorSystem, CreatedAt: time.Now().Add(-time.Minute)}
	second := models.AuditLog{VerificationID: "verif_1", Action: models.AuditActionManualApproved, Actor: "alice", CreatedAt: time.Now()}
	other := models.AuditLog{VerificationID: "verif_2", Action: models.AuditActionAutoDecision, Actor: models.ActorSystem, CreatedAt: time.Now()}

	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))
	require.NoError(t, repo.Create(ctx, &other))

	entries, err := repo.ListByVerification(ctx, "verif_1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.AuditActionManualApproved, entries[0].Action)
	require.Equal(t, models.AuditActionAutoDecision, entries[1].Action)
}

func TestEvidenceRepositoryListByVerification(t *testing.T) {
	db := setupTestDB(t, &models.Evidence{})
	repo := NewEvidenceRepository(db)
	ctx := context.Background()

	front := models.Evidence{VerificationID: "verif_1", StorageKey: "verif_1/id_front_a", Mime: "image/jpeg", Checksum: "aa", CreatedAt: time.Now().Add(-time.Second)}
	selfie := models.Evidence{VerificationID: "verif_1", StorageKey: "verif_1/selfie_b", Mime: "image/jpeg", Checksum: "bb", CreatedAt: time.Now()}

	require.NoError(t, repo.Create(ctx, &front))
	require.NoError(t, repo.Create(ctx, &selfie))

	evidence, err := repo.ListByVerification(ctx, "verif_1")
	require.NoError(t, err)
	require.Len(t, evidence, 2)
	require.Equal(t, "verif_1/id_front_a", evidence[0].StorageKey)
}

func TestCustomerConfigRepositoryMissingCustomer(t *testing.T) {
	db := setupTestDB(t, &models.CustomerConfig{})
	repo := NewCustomerConfigRepository(db)

	_, err := repo.GetByCustomerID(context.Background(), "cust_missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}
