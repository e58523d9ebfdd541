package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/notify"
	"github.com/saiyam0211/smart-urban-backend/internal/repositories"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// ---------------------------------------------------------------------
// In-memory fakes for the repository and gateway interfaces. They keep
// the same invariants the SQL implementations enforce so service tests
// exercise real transition rules.
// ---------------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	cp.RowVersion = 1
	cp.CreatedAt = time.Now()
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateIfVersion(_ context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *u
	cp.RowVersion = expected + 1
	r.users[u.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeUserRepo) UpdateProfileWithRetry(_ context.Context, id uuid.UUID, name, address string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if name != "" {
		u.Name = name
	}
	if address != "" {
		u.Address = address
	}
	u.RowVersion++
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ListTopByContributions(_ context.Context, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contributions > out[j].Contributions })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeVolunteerRepo struct {
	mu         sync.Mutex
	volunteers map[uuid.UUID]*models.Volunteer
}

func newFakeVolunteerRepo() *fakeVolunteerRepo {
	return &fakeVolunteerRepo{volunteers: make(map[uuid.UUID]*models.Volunteer)}
}

func (r *fakeVolunteerRepo) Create(_ context.Context, v *models.Volunteer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	cp.RowVersion = 1
	cp.CreatedAt = time.Now()
	r.volunteers[v.ID] = &cp
	return nil
}

func (r *fakeVolunteerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.volunteers[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVolunteerRepo) GetByEmail(_ context.Context, email string) (*models.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.volunteers {
		if v.Email == email {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeVolunteerRepo) GetByPhone(_ context.Context, phone string) (*models.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.volunteers {
		if v.Phone == phone {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeVolunteerRepo) UpdateIfVersion(_ context.Context, v *models.Volunteer, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.volunteers[v.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *v
	cp.RowVersion = expected + 1
	r.volunteers[v.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeVolunteerRepo) UpdateProfileWithRetry(_ context.Context, id uuid.UUID, name string) (*models.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.volunteers[id]
	if !ok {
		return nil, nil
	}
	if name != "" {
		v.Name = name
	}
	v.RowVersion++
	cp := *v
	return &cp, nil
}

func (r *fakeVolunteerRepo) ListTopByPoints(_ context.Context, limit int) ([]*models.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Volunteer, 0, len(r.volunteers))
	for _, v := range r.volunteers {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVolunteerRepo) CountActiveSince(_ context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.volunteers {
		if !v.UpdatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// fakeGateway records dispatched codes and can be told to fail.
type fakeGateway struct {
	mu       sync.Mutex
	sent     []sentCode
	failNext bool
}

type sentCode struct {
	channel notify.Channel
	address string
	code    string
}

func (g *fakeGateway) SendCode(_ context.Context, channel notify.Channel, address, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentCode{channel: channel, address: address, code: code})
	if g.failNext {
		g.failNext = false
		return utils.ErrExternalServiceFailure
	}
	return nil
}

func (g *fakeGateway) lastCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.sent) == 0 {
		return ""
	}
	return g.sent[len(g.sent)-1].code
}

// fakeProblemRepo mirrors the transition guards of the SQL repo.
type fakeProblemRepo struct {
	mu       sync.Mutex
	problems map[uuid.UUID]*models.Problem
	users    *fakeUserRepo
	vols     *fakeVolunteerRepo

	// next transition fails once with a version conflict; when
	// refetchErr is set the GetByID that follows fails with it
	conflictOnce bool
	refetchErr   error
	armedGetErr  error
}

func newFakeProblemRepo(users *fakeUserRepo, vols *fakeVolunteerRepo) *fakeProblemRepo {
	return &fakeProblemRepo{
		problems: make(map[uuid.UUID]*models.Problem),
		users:    users,
		vols:     vols,
	}
}

func (r *fakeProblemRepo) CreateWithReporter(_ context.Context, p *models.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users.mu.Lock()
	u, ok := r.users.users[p.ReportedBy]
	if !ok {
		r.users.mu.Unlock()
		return utils.ErrIdentityNotFound
	}
	u.Contributions++
	u.ProblemsReported = append(u.ProblemsReported, p.ID)
	r.users.mu.Unlock()

	cp := *p
	cp.RowVersion = 1
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.problems[p.ID] = &cp
	return nil
}

func (r *fakeProblemRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.armedGetErr != nil {
		err := r.armedGetErr
		r.armedGetErr = nil
		return nil, err
	}
	p, ok := r.problems[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProblemRepo) ListAll(_ context.Context) ([]*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Problem, 0, len(r.problems))
	for _, p := range r.problems {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProblemRepo) ListByAssignee(_ context.Context, volunteerID uuid.UUID) ([]*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Problem, 0)
	for _, p := range r.problems {
		if p.AssignedTo != nil && *p.AssignedTo == volunteerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) locked(problemID uuid.UUID, expectedVersion int64) (*models.Problem, error) {
	if r.conflictOnce {
		r.conflictOnce = false
		r.armedGetErr = r.refetchErr
		return nil, utils.ErrRowVersionConflict
	}
	p, ok := r.problems[problemID]
	if !ok {
		return nil, utils.ErrProblemNotFound
	}
	if p.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	return p, nil
}

func (r *fakeProblemRepo) AssignAtomic(_ context.Context, problemID, volunteerID uuid.UUID, expectedVersion int64) (*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.locked(problemID, expectedVersion)
	if err != nil {
		return nil, err
	}
	if p.AssignedTo != nil {
		return nil, utils.ErrAlreadyAssigned
	}
	if p.Status != models.ProblemStatusPending {
		return nil, utils.ErrWrongStatus
	}
	v := volunteerID
	p.AssignedTo = &v
	p.Status = models.ProblemStatusAssigned
	p.RowVersion++
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (r *fakeProblemRepo) StartAtomic(_ context.Context, problemID, volunteerID uuid.UUID, expectedVersion int64) (*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.locked(problemID, expectedVersion)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ProblemStatusAssigned {
		return nil, utils.ErrWrongStatus
	}
	if p.AssignedTo == nil || *p.AssignedTo != volunteerID {
		return nil, utils.ErrNotAssignedActor
	}
	p.Status = models.ProblemStatusInProgress
	p.RowVersion++
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (r *fakeProblemRepo) SolveAtomic(_ context.Context, problemID, volunteerID uuid.UUID, expectedVersion int64) (*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.locked(problemID, expectedVersion)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ProblemStatusAssigned && p.Status != models.ProblemStatusInProgress {
		return nil, utils.ErrWrongStatus
	}
	if p.AssignedTo == nil || *p.AssignedTo != volunteerID {
		return nil, utils.ErrNotAssignedActor
	}

	r.vols.mu.Lock()
	v, ok := r.vols.volunteers[volunteerID]
	if !ok {
		r.vols.mu.Unlock()
		return nil, utils.ErrIdentityNotFound
	}
	v.Points += p.Points
	v.ProblemsSolved = append(v.ProblemsSolved, p.ID)
	v.UpdatedAt = time.Now()
	r.vols.mu.Unlock()

	now := time.Now()
	p.Status = models.ProblemStatusSolved
	p.SolvedAt = &now
	p.RowVersion++
	p.UpdatedAt = now
	cp := *p
	return &cp, nil
}

func (r *fakeProblemRepo) CountInWindow(_ context.Context, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.problems {
		if !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (r *fakeProblemRepo) CountByCategory(_ context.Context, start, end time.Time) ([]repositories.CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.ProblemCategoryType]int)
	for _, p := range r.problems {
		if !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
			counts[p.Category]++
		}
	}
	out := make([]repositories.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, repositories.CategoryCount{Category: c, Count: n})
	}
	return out, nil
}

func (r *fakeProblemRepo) SolvedStatsInWindow(_ context.Context, start, end time.Time) (int, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	var totalHours float64
	for _, p := range r.problems {
		if p.Status != models.ProblemStatusSolved || p.SolvedAt == nil {
			continue
		}
		if p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
			continue
		}
		count++
		totalHours += p.SolvedAt.Sub(p.CreatedAt).Hours()
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, totalHours / float64(count), nil
}

func (r *fakeProblemRepo) ActiveAreas(_ context.Context, start, end time.Time, limit int) ([]repositories.AreaCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct{ lat, lng float64 }
	counts := make(map[key]int)
	for _, p := range r.problems {
		if !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
			counts[key{p.Latitude, p.Longitude}]++
		}
	}
	out := make([]repositories.AreaCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, repositories.AreaCount{Latitude: k.lat, Longitude: k.lng, ReportCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportCount > out[j].ReportCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
