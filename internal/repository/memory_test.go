package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFeedbackRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	base := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ctx := context.Background()

	for _, nom := range []string{"Durand", "Martin", "Petit"} {
		require.NoError(t, repo.Create(ctx, &models.Feedback{Nom: nom, Status: models.StatusPending}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Petit", list[0].Nom)
	assert.Equal(t, "Durand", list[2].Nom)
}

func TestMemoryFeedbackRepository_UnknownID(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 7)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.True(t, errors.Is(repo.UpdateStatus(ctx, 7, models.StatusResolved), apperrors.ErrNotFound))
	assert.True(t, errors.Is(repo.UpdateAdminAction(ctx, 7, "x"), apperrors.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, 7), apperrors.ErrNotFound))
}

func TestMemoryFeedbackRepository_DeleteIsTerminal(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	ctx := context.Background()
	f := &models.Feedback{Nom: "Durand", Status: models.StatusPending}
	require.NoError(t, repo.Create(ctx, f))

	require.NoError(t, repo.Delete(ctx, f.ID))

	_, err := repo.GetByID(ctx, f.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, f.ID), apperrors.ErrNotFound))
}

func TestMemoryProblemTypeRepository(t *testing.T) {
	repo := NewMemoryProblemTypeRepository(models.DefaultProblemTypes...)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	_, err = repo.Create(ctx, "AMELIORATION")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	pt, err := repo.SetActive(ctx, all[0].ID, false)
	require.NoError(t, err)
	assert.False(t, pt.IsActive)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)
	for _, a := range active {
		assert.NotEqual(t, all[0].Label, a.Label)
	}

	_, err = repo.SetActive(ctx, 999, true)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMemoryAdminRepository(t *testing.T) {
	repo := NewMemoryAdminRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Admin{Email: "Admin@MIM.fr", Role: models.RoleAdmin, IsActive: true}))
	err := repo.Create(ctx, &models.Admin{Email: "admin@mim.fr"})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	a, err := repo.GetByEmail(ctx, " admin@mim.fr ")
	require.NoError(t, err)
	assert.Equal(t, "Admin@MIM.fr", a.Email)
	assert.NotEqual(t, "", a.ID.String())
}
