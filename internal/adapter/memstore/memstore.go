// Package memstore provides in-memory domain repositories. They back tests
// and local runs without a database.
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobpilot/internal/domain"
)

// Store holds every entity behind one mutex.
type Store struct {
	mu    sync.Mutex
	now   func() time.Time
	users map[string]domain.User
	cvs   map[string]domain.CV
	prefs map[string]domain.JobPreferences
	apps  map[string]domain.Application
	seq   int64
}

// New returns an empty store. A nil clock uses time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:   now,
		users: map[string]domain.User{},
		cvs:   map[string]domain.CV{},
		prefs: map[string]domain.JobPreferences{},
		apps:  map[string]domain.Application{},
	}
}

// tick returns a strictly increasing timestamp so "newest first" is stable
// even with a frozen clock.
func (s *Store) tick() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

func (s *Store) Users() *Users             { return &Users{s} }
func (s *Store) CVs() *CVs                 { return &CVs{s} }
func (s *Store) Preferences() *Preferences { return &Preferences{s} }
func (s *Store) Applications() *Applications {
	return &Applications{s}
}

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return domain.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	if user.Plan == "" {
		user.Plan = domain.UserPlanFree
	}
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *Users) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, login) || strings.EqualFold(u.Username, login) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Users) UpdatePlan(_ context.Context, id string, plan domain.UserPlan) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Plan = plan
	u.UpdatedAt = r.s.tick()
	r.s.users[id] = u
	return &u, nil
}

type CVs struct{ s *Store }

func (r *CVs) Create(_ context.Context, cv *domain.CV) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[cv.UserID]; !ok {
		return domain.ErrNotFound
	}
	cv.ID = uuid.NewString()
	cv.UploadedAt = r.s.tick()
	r.s.cvs[cv.ID] = *cv
	return nil
}

func (r *CVs) GetByID(_ context.Context, id string) (*domain.CV, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cv, ok := r.s.cvs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cv, nil
}

func (r *CVs) ListByUser(_ context.Context, userID string) ([]domain.CV, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.CV{}
	for _, cv := range r.s.cvs {
		if cv.UserID == userID {
			out = append(out, cv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].UploadedAt, out[j].UploadedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *CVs) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cvs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.cvs, id)
	for appID, app := range r.s.apps {
		if app.CVID == id {
			app.CVID = ""
			r.s.apps[appID] = app
		}
	}
	return nil
}

type Preferences struct{ s *Store }

func (r *Preferences) GetByUser(_ context.Context, userID string) (*domain.JobPreferences, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *Preferences) Upsert(_ context.Context, prefs *domain.JobPreferences) (*domain.JobPreferences, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[prefs.UserID]; !ok {
		return nil, domain.ErrNotFound
	}
	out := *prefs
	now := r.s.tick()
	if existing, ok := r.s.prefs[prefs.UserID]; ok {
		out.ID = existing.ID
		out.CreatedAt = existing.CreatedAt
	} else {
		out.ID = uuid.NewString()
		out.CreatedAt = now
	}
	out.UpdatedAt = now
	for _, list := range []*[]string{&out.Industries, &out.Locations, &out.Keywords, &out.JobTypes} {
		if *list == nil {
			*list = []string{}
		}
	}
	r.s.prefs[prefs.UserID] = out
	return &out, nil
}

func (r *Preferences) ListAutoApplyUsers(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for userID, p := range r.s.prefs {
		if p.AutoApply {
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type Applications struct{ s *Store }

func (r *Applications) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[app.UserID]; !ok {
		return domain.ErrNotFound
	}
	if app.Status == "" {
		app.Status = domain.ApplicationStatusSent
	}
	if app.Method == "" {
		app.Method = domain.ApplicationMethodEmail
	}
	app.ID = uuid.NewString()
	app.AppliedAt = r.s.tick()
	app.UpdatedAt = app.AppliedAt
	r.s.apps[app.ID] = *app
	return nil
}

func (r *Applications) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &app, nil
}

func (r *Applications) ListByUser(_ context.Context, userID string) ([]domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(userID), nil
}

func (r *Applications) listLocked(userID string) []domain.Application {
	out := []domain.Application{}
	for _, app := range r.s.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].AppliedAt, out[j].AppliedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *Applications) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus, responseData json.RawMessage) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	app.Status = status
	if len(responseData) > 0 {
		app.ResponseData = responseData
	}
	app.UpdatedAt = r.s.tick()
	r.s.apps[id] = app
	return nil
}

func (r *Applications) CountSince(_ context.Context, userID string, since time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, app := range r.listLocked(userID) {
		if !app.AppliedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *Applications) Stats(_ context.Context, userID string, now time.Time) (*domain.ApplicationStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st domain.ApplicationStats
	week, month := domain.WeekStart(now), domain.MonthStart(now)
	for _, app := range r.listLocked(userID) {
		st.Total++
		switch app.Status {
		case domain.ApplicationStatusSent:
			st.Sent++
		case domain.ApplicationStatusPending:
			st.Pending++
		case domain.ApplicationStatusResponded:
			st.Responded++
		case domain.ApplicationStatusFailed:
			st.Failed++
		}
		if !app.AppliedAt.Before(week) {
			st.ThisWeek++
		}
		if !app.AppliedAt.Before(month) {
			st.ThisMonth++
		}
	}
	return &st, nil
}

var (
	_ domain.UserRepository        = (*Users)(nil)
	_ domain.CVRepository          = (*CVs)(nil)
	_ domain.PreferencesRepository = (*Preferences)(nil)
	_ domain.ApplicationRepository = (*Applications)(nil)
)

// newerFirst orders by timestamp descending, then id descending, matching
// the SQL listings.
func newerFirst(ti, tj time.Time, idi, idj string) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi > idj
}
