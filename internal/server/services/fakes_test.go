package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/dmitrijs2005/cryptown/internal/dbx"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/posts"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/sessiontokens"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/subposts"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/users"
)

// -------- users --------

type fakeUsersRepo struct {
	byID map[string]*models.User

	getErr, createErr, failErr, resetErr, liftErr, updateErr, countErr error

	getCalls  int
	banStamps int
	lifts     int
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func clone(u *models.User) *models.User {
	c := *u
	if u.BanDateTime != nil {
		t := *u.BanDateTime
		c.BanDateTime = &t
	}
	return &c
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.Attempts = 0
	u.BanDateTime = nil
	f.byID[u.ID] = clone(u)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (f *fakeUsersRepo) RecordFailedAttempt(_ context.Context, id string, max int, now time.Time) (int, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	u, ok := f.byID[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.Attempts++
	if u.Attempts >= max && u.BanDateTime == nil {
		t := now
		u.BanDateTime = &t
		f.banStamps++
	}
	return u.Attempts, nil
}

func (f *fakeUsersRepo) ResetAttempts(_ context.Context, id string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	if u, ok := f.byID[id]; ok {
		u.Attempts = 0
	}
	return nil
}

func (f *fakeUsersRepo) LiftBan(_ context.Context, id string) error {
	if f.liftErr != nil {
		return f.liftErr
	}
	f.lifts++
	if u, ok := f.byID[id]; ok {
		u.Attempts = 0
		u.BanDateTime = nil
	}
	return nil
}

func (f *fakeUsersRepo) UpdateProfile(_ context.Context, id, userName, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if u, ok := f.byID[id]; ok {
		if userName != "" {
			u.UserName = userName
		}
		if hash != "" {
			u.Password = hash
		}
	}
	return nil
}

func (f *fakeUsersRepo) Count(context.Context) (int, error) {
	return len(f.byID), f.countErr
}

// -------- session tokens --------

type fakeTokensRepo struct {
	owner map[string]string

	createErr, findErr, deleteErr, countErr error
	deleteZero                              bool
}

func newFakeTokensRepo() *fakeTokensRepo {
	return &fakeTokensRepo{owner: map[string]string{}}
}

func (f *fakeTokensRepo) Create(_ context.Context, userID, token string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.owner[token] = userID
	return nil
}

func (f *fakeTokensRepo) Find(_ context.Context, token, userID string) (*models.SessionToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if owner, ok := f.owner[token]; ok && owner == userID {
		return &models.SessionToken{Token: token, UserID: userID}, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokensRepo) FindByToken(_ context.Context, token string) (*models.SessionToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if owner, ok := f.owner[token]; ok {
		return &models.SessionToken{Token: token, UserID: owner}, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokensRepo) Delete(_ context.Context, token, userID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if f.deleteZero {
		return 0, nil
	}
	if owner, ok := f.owner[token]; ok && owner == userID {
		delete(f.owner, token)
		return 1, nil
	}
	return 0, nil
}

func (f *fakeTokensRepo) Count(context.Context) (int, error) {
	return len(f.owner), f.countErr
}

// -------- posts --------

type fakePostsRepo struct {
	posts.Repository
	list      []models.Post
	created   []*models.Post
	listErr   error
	existsErr error
	createErr error
}

func (f *fakePostsRepo) List(context.Context) ([]models.Post, error) { return f.list, f.listErr }

func (f *fakePostsRepo) Exists(_ context.Context, id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, p := range f.list {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostsRepo) Create(_ context.Context, p *models.Post) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	return nil
}

type fakeSubPostsRepo struct {
	subposts.Repository
	list      []models.SubPost
	created   []*models.SubPost
	listErr   error
	createErr error
}

func (f *fakeSubPostsRepo) List(context.Context) ([]models.SubPost, error) { return f.list, f.listErr }

func (f *fakeSubPostsRepo) Create(_ context.Context, sp *models.SubPost) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, sp)
	return nil
}

// -------- manager --------

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u  *fakeUsersRepo
	t  *fakeTokensRepo
	p  *fakePostsRepo
	sp *fakeSubPostsRepo
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) SessionTokens(dbx.DBTX) sessiontokens.Repository { return m.t }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository                 { return m.p }
func (m *fakeRepoManager) SubPosts(dbx.DBTX) subposts.Repository           { return m.sp }

// -------- misc --------

type fakeCache struct {
	data      map[string]string
	putErr    error
	lookupErr error
	evictErr  error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Put(_ context.Context, token, userID string, _ time.Duration) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.data[token] = userID
	return nil
}

func (c *fakeCache) Lookup(_ context.Context, token string) (string, bool, error) {
	if c.lookupErr != nil {
		return "", false, c.lookupErr
	}
	v, ok := c.data[token]
	return v, ok, nil
}

func (c *fakeCache) Evict(_ context.Context, token string) error {
	if c.evictErr != nil {
		return c.evictErr
	}
	delete(c.data, token)
	return nil
}

type stubHasher struct {
	hashErr    error
	compareErr error
}

func (h stubHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + p, nil
}

func (h stubHasher) Compare(hash, p string) (bool, error) {
	if h.compareErr != nil {
		return false, h.compareErr
	}
	return hash == "hashed:"+p, nil
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}
