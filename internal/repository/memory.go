package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryFeedbackRepository keeps feedback records in process memory.
type MemoryFeedbackRepository struct {
	mu      sync.RWMutex
	nextID  int
	records map[int]models.Feedback
	now     func() time.Time
}

func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{nextID: 1, records: make(map[int]models.Feedback), now: time.Now}
}

func (r *MemoryFeedbackRepository) Create(_ context.Context, f *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	f.CreatedAt = r.now().UTC()
	r.nextID++
	r.records[f.ID] = *f
	return nil
}

func (r *MemoryFeedbackRepository) List(_ context.Context) ([]models.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Feedback, 0, len(r.records))
	for _, f := range r.records {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *MemoryFeedbackRepository) GetByID(_ context.Context, id int) (*models.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.records[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrorCodeNotFound, "Remontée #%d introuvable", id)
	}
	return &f, nil
}

func (r *MemoryFeedbackRepository) update(id int, fn func(*models.Feedback)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.records[id]
	if !ok {
		return apperrors.Newf(apperrors.ErrorCodeNotFound, "Remontée #%d introuvable", id)
	}
	fn(&f)
	r.records[id] = f
	return nil
}

func (r *MemoryFeedbackRepository) UpdateStatus(_ context.Context, id int, status models.Status) error {
	return r.update(id, func(f *models.Feedback) { f.Status = status })
}

func (r *MemoryFeedbackRepository) UpdateAdminAction(_ context.Context, id int, text string) error {
	return r.update(id, func(f *models.Feedback) { f.ActionAdmin = text })
}

func (r *MemoryFeedbackRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return apperrors.Newf(apperrors.ErrorCodeNotFound, "Remontée #%d introuvable", id)
	}
	delete(r.records, id)
	return nil
}

// MemoryProblemTypeRepository keeps the catalog in process memory.
type MemoryProblemTypeRepository struct {
	mu     sync.RWMutex
	nextID int
	types  map[int]models.ProblemType
}

// NewMemoryProblemTypeRepository returns a catalog seeded with labels, all active.
func NewMemoryProblemTypeRepository(labels ...string) *MemoryProblemTypeRepository {
	r := &MemoryProblemTypeRepository{nextID: 1, types: make(map[int]models.ProblemType)}
	for _, label := range labels {
		_, _ = r.Create(context.Background(), label)
	}
	return r
}

func (r *MemoryProblemTypeRepository) sorted(filter func(models.ProblemType) bool) []models.ProblemType {
	list := []models.ProblemType{}
	for _, pt := range r.types {
		if filter(pt) {
			list = append(list, pt)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Label < list[j].Label })
	return list
}

func (r *MemoryProblemTypeRepository) List(_ context.Context) ([]models.ProblemType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(models.ProblemType) bool { return true }), nil
}

func (r *MemoryProblemTypeRepository) ListActive(_ context.Context) ([]models.ProblemType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(pt models.ProblemType) bool { return pt.IsActive }), nil
}

func (r *MemoryProblemTypeRepository) Create(_ context.Context, label string) (*models.ProblemType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pt := range r.types {
		if pt.Label == label {
			return nil, apperrors.Newf(apperrors.ErrorCodeConflict, "Le type %q existe déjà", label)
		}
	}
	pt := models.ProblemType{ID: r.nextID, Label: label, IsActive: true, CreatedAt: time.Now().UTC()}
	r.nextID++
	r.types[pt.ID] = pt
	return &pt, nil
}

func (r *MemoryProblemTypeRepository) SetActive(_ context.Context, id int, active bool) (*models.ProblemType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pt, ok := r.types[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrorCodeNotFound, "Type #%d introuvable", id)
	}
	pt.IsActive = active
	r.types[id] = pt
	return &pt, nil
}

func (r *MemoryProblemTypeRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[id]; !ok {
		return apperrors.Newf(apperrors.ErrorCodeNotFound, "Type #%d introuvable", id)
	}
	delete(r.types, id)
	return nil
}

// MemoryAdminRepository keeps admin accounts in process memory.
type MemoryAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]models.Admin // keyed by lowercased email
}

func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{admins: make(map[string]models.Admin)}
}

func (r *MemoryAdminRepository) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, apperrors.NotFound("Administrateur introuvable")
	}
	return &a, nil
}

func (r *MemoryAdminRepository) Create(_ context.Context, a *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(a.Email))
	if _, exists := r.admins[key]; exists {
		return apperrors.Newf(apperrors.ErrorCodeConflict, "Un administrateur avec l'email %s existe déjà", a.Email)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.admins[key] = *a
	return nil
}
