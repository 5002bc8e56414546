package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/repository"
	"github.com/AnshRaj112/remontee-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu       sync.Mutex
	queues   []string
	messages []interface{}
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, queue string, msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queues = append(p.queues, queue)
	p.messages = append(p.messages, msg)
	return p.err
}

func (p *recordingPublisher) Close() {}

func validSubmission() models.FeedbackSubmission {
	return models.FeedbackSubmission{
		Societe: "MIM",
		Date:    "2024-01-15",
		Nom:     "Durand",
		Prenom:  "Alice",
		Lieu:    "Site A",
		Type:    "AMELIORATION",
	}
}

func newFeedbackService(t *testing.T) (*FeedbackService, *MemoryAuditLog, *recordingPublisher) {
	t.Helper()
	audit := &MemoryAuditLog{}
	pub := &recordingPublisher{}
	svc := NewFeedbackService(repository.NewMemoryFeedbackRepository(), audit, pub, zap.NewNop())
	return svc, audit, pub
}

func TestFeedbackService_SubmitForcesPending(t *testing.T) {
	svc, audit, pub := newFeedbackService(t)
	ctx := context.Background()

	f, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, f.Status)
	assert.Equal(t, "Site A", f.LieuClient)

	stored, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)

	require.Len(t, pub.queues, 1)
	assert.Equal(t, NewFeedbackQueue, pub.queues[0])
	msg := pub.messages[0].(models.FeedbackCreatedMessage)
	assert.Equal(t, f.ID, msg.FeedbackID)

	history, err := audit.History(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.TriageCreated, history[0].Action)
}

func TestFeedbackService_SubmitMissingField(t *testing.T) {
	svc, _, pub := newFeedbackService(t)

	sub := validSubmission()
	sub.Prenom = "   "
	_, err := svc.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, models.RequiredFieldsMessage, apperrors.UserMessage(err))
	assert.Empty(t, pub.queues)
}

func TestFeedbackService_PublishFailureDoesNotFailSubmit(t *testing.T) {
	svc, _, pub := newFeedbackService(t)
	pub.err = errors.New("broker down")

	_, err := svc.Submit(context.Background(), validSubmission())
	assert.NoError(t, err)
}

func TestFeedbackService_StatusAnyToAny(t *testing.T) {
	svc, _, _ := newFeedbackService(t)
	ctx := context.Background()
	f, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	for _, s := range []models.Status{models.StatusResolved, models.StatusPending, models.StatusInProgress, models.StatusResolved} {
		updated, err := svc.UpdateStatus(ctx, "admin", f.ID, s)
		require.NoError(t, err)
		assert.Equal(t, s, updated.Status)

		got, err := svc.Get(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	_, err = svc.UpdateStatus(ctx, "admin", f.ID, "Fermé")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.UpdateStatus(ctx, "admin", 7777, models.StatusResolved)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestFeedbackService_AdminActionAndDelete(t *testing.T) {
	svc, audit, _ := newFeedbackService(t)
	ctx := context.Background()
	f, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	updated, err := svc.UpdateAdminAction(ctx, "admin", f.ID, "Barrière réparée")
	require.NoError(t, err)
	assert.Equal(t, "Barrière réparée", updated.ActionAdmin)

	require.NoError(t, svc.Delete(ctx, "admin", f.ID))
	_, err = svc.Get(ctx, f.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	history, err := svc.History(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.TriageDeleted, history[0].Action)
	assert.Len(t, audit.events, 3)
}

func TestCatalogService_CacheInvalidation(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := repository.NewMemoryProblemTypeRepository(models.DefaultProblemTypes...)
	svc := NewCatalogService(repo, NewRedisCache(client), zap.NewNop())
	ctx := context.Background()

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 4)
	assert.True(t, mr.Exists(CacheKeyPrefix+activeTypesCacheKey(0)))

	pt, err := svc.Create(ctx, "  chute d'objet ")
	require.NoError(t, err)
	assert.Equal(t, "CHUTE D'OBJET", pt.Label)
	assert.False(t, mr.Exists(CacheKeyPrefix+activeTypesCacheKey(0)))

	active, err = svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 5)

	_, err = svc.SetActive(ctx, pt.ID, false)
	require.NoError(t, err)
	active, err = svc.ListActive(ctx)
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, pt.ID, a.ID)
	}

	_, err = svc.SetActive(ctx, pt.ID, true)
	require.NoError(t, err)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	for _, a := range all {
		if a.ID == pt.ID {
			assert.True(t, a.IsActive, "toggling twice restores the flag")
		}
	}

	require.NoError(t, svc.Delete(ctx, pt.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, pt.ID), apperrors.ErrNotFound))
}

// interleavingTypeRepository runs afterRead once, between the repository
// read of the active list and its return.
type interleavingTypeRepository struct {
	repository.ProblemTypeRepository
	afterRead func()
}

func (r *interleavingTypeRepository) ListActive(ctx context.Context) ([]models.ProblemType, error) {
	types, err := r.ProblemTypeRepository.ListActive(ctx)
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return types, err
}

func TestCatalogService_DeactivationDuringCacheFill(t *testing.T) {
	_, client := newTestRedis(t)
	repo := &interleavingTypeRepository{
		ProblemTypeRepository: repository.NewMemoryProblemTypeRepository(models.DefaultProblemTypes...),
	}
	svc := NewCatalogService(repo, NewRedisCache(client), zap.NewNop())
	ctx := context.Background()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	target := all[0]

	repo.afterRead = func() {
		_, err := svc.SetActive(ctx, target.ID, false)
		require.NoError(t, err)
	}
	stale, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 4, "the in-flight read still sees the old list")

	for i := 0; i < 2; i++ {
		active, err := svc.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 3)
		for _, pt := range active {
			assert.NotEqual(t, target.ID, pt.ID)
		}
	}
}

func TestCatalogService_RejectsEmptyAndDuplicateLabels(t *testing.T) {
	svc := NewCatalogService(repository.NewMemoryProblemTypeRepository(models.DefaultProblemTypes...), NopCache{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Create(ctx, "amelioration")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(repository.NewMemoryAdminRepository(), NewMemorySessionStore(), zap.NewNop())
	svc.hash = func(p string) (string, error) {
		return utils.HashPasswordWith(p, utils.Argon2Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	}
	return svc
}

func TestAuthService_LoginLogout(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@mim.fr", "secret", "ADMIN", "Admin"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@mim.fr", "other", "ADMIN", "Admin"), "second bootstrap is a no-op")

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "ADMIN@mim.fr", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	adminID, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, adminID.String())

	require.NoError(t, svc.Logout(ctx, resp.Token))
	_, err = svc.Authenticate(ctx, resp.Token)
	assert.True(t, errors.Is(err, apperrors.ErrAuth))
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@mim.fr", "secret", "ADMIN", "Admin"))

	_, err := svc.Login(ctx, models.LoginRequest{Email: "admin@mim.fr", Password: "wrong"})
	assert.True(t, errors.Is(err, apperrors.ErrAuth))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@mim.fr", Password: "secret"})
	assert.True(t, errors.Is(err, apperrors.ErrAuth))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "", Password: ""})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestAuthService_NonAdminRoleRefused(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	hash, err := svc.hash("secret")
	require.NoError(t, err)
	require.NoError(t, svc.admins.Create(ctx, &models.Admin{
		Email: "viewer@mim.fr", Role: "VIEWER", PasswordHash: hash, IsActive: true,
	}))
	require.NoError(t, svc.admins.Create(ctx, &models.Admin{
		Email: "old@mim.fr", Role: models.RoleAdmin, PasswordHash: hash, IsActive: false,
	}))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "viewer@mim.fr", Password: "secret"})
	assert.True(t, errors.Is(err, apperrors.ErrAuth))
	_, err = svc.Login(ctx, models.LoginRequest{Email: "old@mim.fr", Password: "secret"})
	assert.True(t, errors.Is(err, apperrors.ErrAuth))
}
