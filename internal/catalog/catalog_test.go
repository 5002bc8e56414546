package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/client"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/prompt"
	"github.com/AnshRaj112/remontee-backend/internal/testserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLister struct{}

func (failingLister) ListActiveTypes(context.Context) ([]models.ProblemType, error) {
	return nil, apperrors.New(apperrors.ErrorCodeNetwork, "Impossible de joindre le serveur")
}

func TestLoadOptions_FromServer(t *testing.T) {
	srv := testserver.New(t)
	opts := LoadOptions(context.Background(), client.New(srv.APIURL()))

	assert.False(t, opts.Degraded)
	assert.ElementsMatch(t, models.DefaultProblemTypes, opts.Labels)
	display := opts.Display()
	assert.Equal(t, OtherLabel, display[len(display)-1])
}

func TestLoadOptions_FallbackStillSubmits(t *testing.T) {
	opts := LoadOptions(context.Background(), failingLister{})
	require.True(t, opts.Degraded)
	assert.True(t, errors.Is(opts.Err, apperrors.ErrNetwork))
	assert.Equal(t, []string{
		"AMELIORATION", "NON CONFORMITE", "SITUATION DANGEREUSE", "INFORMATION SUITE A UNE CAUSERIE", "Autre",
	}, opts.Display())

	choice, err := opts.Choose(1, "")
	require.NoError(t, err)
	label, err := Resolve(choice)
	require.NoError(t, err)

	srv := testserver.New(t)
	f, err := client.New(srv.APIURL()).SubmitFeedback(context.Background(), models.FeedbackSubmission{
		Date: "2024-01-15", Nom: "Durand", Prenom: "Alice", Lieu: "Site A", Type: label,
	})
	require.NoError(t, err)
	assert.Equal(t, "AMELIORATION", f.TypeProbleme)
}

func TestChooseAndResolve(t *testing.T) {
	opts := Options{Labels: []string{"AMELIORATION", "NON CONFORMITE"}}

	c, err := opts.Choose(2, "ignored")
	require.NoError(t, err)
	assert.Equal(t, CatalogChoice{Label: "NON CONFORMITE"}, c)

	c, err = opts.Choose(3, "  Fuite d'huile ")
	require.NoError(t, err)
	label, err := Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, "Fuite d'huile", label)

	c, err = opts.Choose(3, "   ")
	require.NoError(t, err)
	_, err = Resolve(c)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = opts.Choose(0, "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	_, err = opts.Choose(4, "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCatalogLabelNamedAutreIsNotTheSentinel(t *testing.T) {
	opts := Options{Labels: []string{"Autre", "AMELIORATION"}}

	assert.Equal(t, []string{"Autre", "AMELIORATION", "Autre"}, opts.Display())

	c, err := opts.Choose(1, "free text")
	require.NoError(t, err)
	label, err := Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, "Autre", label)

	c, err = opts.Choose(3, "free text")
	require.NoError(t, err)
	label, err = Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, "free text", label)

	assert.Equal(t, CatalogChoice{Label: "Autre"}, opts.ChooseLabel("Autre"))
	assert.Equal(t, OtherChoice{Text: "Bruit"}, opts.ChooseLabel(" Bruit "))
}

func TestManager_CreateToggleDelete(t *testing.T) {
	srv := testserver.New(t)
	c := client.New(srv.APIURL())
	resp, err := c.Login(context.Background(), testserver.AdminEmail, testserver.AdminPassword)
	require.NoError(t, err)
	c.SetToken(resp.Token)
	ctx := context.Background()

	m := NewManager(c, prompt.Always(true))
	require.NoError(t, m.Load(ctx))
	require.Len(t, m.Types(), 4)

	_, err = m.Create(ctx, "   ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	pt, err := m.Create(ctx, " bruit ")
	require.NoError(t, err)
	assert.Equal(t, "BRUIT", pt.Label)
	assert.Len(t, m.Types(), 5)

	_, err = m.Toggle(ctx, pt.ID)
	require.NoError(t, err)
	active := LoadOptions(ctx, c)
	assert.NotContains(t, active.Labels, "BRUIT")

	_, err = m.Toggle(ctx, pt.ID)
	require.NoError(t, err)
	active = LoadOptions(ctx, c)
	assert.Contains(t, active.Labels, "BRUIT", "toggling twice restores the type")

	require.NoError(t, m.Delete(ctx, pt.ID))
	assert.Len(t, m.Types(), 4)
}

type flakyAdminAPI struct {
	types []models.ProblemType
	err   error
	calls int
}

func (f *flakyAdminAPI) ListAllTypes(context.Context) ([]models.ProblemType, error) {
	return f.types, nil
}
func (f *flakyAdminAPI) CreateType(context.Context, string) (*models.ProblemType, error) {
	return nil, f.err
}
func (f *flakyAdminAPI) SetTypeActive(context.Context, int, bool) (*models.ProblemType, error) {
	return nil, f.err
}
func (f *flakyAdminAPI) DeleteType(context.Context, int) error {
	f.calls++
	return f.err
}

func TestManager_ToggleRevertsOnFailure(t *testing.T) {
	api := &flakyAdminAPI{
		types: []models.ProblemType{{ID: 1, Label: "AMELIORATION", IsActive: true}},
		err:   apperrors.New(apperrors.ErrorCodeNetwork, "Impossible de joindre le serveur"),
	}
	m := NewManager(api, prompt.Always(true))
	require.NoError(t, m.Load(context.Background()))

	_, err := m.Toggle(context.Background(), 1)
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	assert.True(t, m.Types()[0].IsActive)

	_, err = m.Toggle(context.Background(), 99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestManager_DeleteDeclinedIssuesNoRequest(t *testing.T) {
	api := &flakyAdminAPI{types: []models.ProblemType{{ID: 1, Label: "AMELIORATION", IsActive: true}}}
	m := NewManager(api, prompt.Always(false))
	require.NoError(t, m.Load(context.Background()))

	err := m.Delete(context.Background(), 1)
	assert.True(t, errors.Is(err, apperrors.ErrCancelled))
	assert.Equal(t, 0, api.calls)
	assert.Len(t, m.Types(), 1)
}
