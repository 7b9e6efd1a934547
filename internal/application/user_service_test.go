package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"user-registry/internal/domain/entity"
	repo "user-registry/internal/domain/repository"
	"user-registry/internal/domain/valueobject"
)

// --- Mocks ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Add(u *entity.User) (int, error) {
	args := m.Called(u)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(id int, includeDeleted bool) (*entity.User, error) {
	args := m.Called(id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(includeDeleted bool) ([]entity.User, error) {
	args := m.Called(includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetOnlyDeleted() ([]entity.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(u *entity.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(u *entity.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func newTestUser(t *testing.T, id int, fullName, email string) *entity.User {
	t.Helper()
	e, err := valueobject.NewEmail(email)
	require.NoError(t, err)
	u := entity.NewUser(fullName, e)
	u.ID = id
	return u
}

func newTestService(r repo.UserRepository) *Service {
	return NewService(r, nil, nil, nil, "", nil)
}

// --- Add ---

func TestAdd_ReturnsAssignedID(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByEmail", "ana@x.com").Return(nil, repo.ErrNotFound).Once()
	m.On("Add", mock.MatchedBy(func(u *entity.User) bool {
		return u.FullName == "Ana" &&
			u.Email.Address() == "ana@x.com" &&
			!u.IsDeleted &&
			u.LastModifiedAt == nil
	})).Return(1, nil).Once()

	svc := newTestService(m)
	id, err := svc.Add(context.Background(), UserDTO{FullName: "Ana", Email: "Ana@X.com"})

	require.NoError(t, err)
	assert.Equal(t, 1, id)
	m.AssertExpectations(t)
}

func TestAdd_EmailAlreadyRegistered(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByEmail", "ana@x.com").Return(newTestUser(t, 1, "Ana", "ana@x.com"), nil).Once()

	svc := newTestService(m)
	_, err := svc.Add(context.Background(), UserDTO{FullName: "Bob", Email: "ana@x.com"})

	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	m.AssertNotCalled(t, "Add", mock.Anything)
}

func TestAdd_InvalidEmail(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByEmail", "bad").Return(nil, repo.ErrNotFound).Once()

	svc := newTestService(m)
	_, err := svc.Add(context.Background(), UserDTO{FullName: "Ana", Email: "bad"})

	assert.ErrorIs(t, err, valueobject.ErrInvalidEmail)
	m.AssertNotCalled(t, "Add", mock.Anything)
}

// --- Update ---

func TestUpdate_UserNotFound(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 42, false).Return(nil, repo.ErrNotFound).Once()

	svc := newTestService(m)
	err := svc.Update(context.Background(), UserDTO{ID: 42, FullName: "Ana", Email: "ana@x.com"})

	assert.ErrorIs(t, err, ErrUserNotFound)
	m.AssertNotCalled(t, "Update", mock.Anything)
}

// The email lookup finds the record itself and the full name matches, so
// the legacy conflict rule fires before the unchanged check is reached.
// Either way, an unchanged update never writes to the store.
func TestUpdate_UnchangedValues_PerformsNoWrite(t *testing.T) {
	m := new(MockUserRepository)
	u := newTestUser(t, 1, "Ana", "ana@x.com")
	m.On("GetByID", 1, false).Return(u, nil).Once()
	m.On("GetByEmail", "ana@x.com").Return(u, nil).Once()

	svc := newTestService(m)
	err := svc.Update(context.Background(), UserDTO{ID: 1, FullName: "Ana", Email: "ana@x.com"})

	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	m.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdate_NameChangeWrites(t *testing.T) {
	m := new(MockUserRepository)
	u := newTestUser(t, 1, "Ana", "ana@x.com")
	m.On("GetByID", 1, false).Return(u, nil).Once()
	m.On("GetByEmail", "ana@x.com").Return(u, nil).Once()
	m.On("Update", mock.MatchedBy(func(got *entity.User) bool {
		return got.ID == 1 &&
			got.FullName == "Ana Maria" &&
			got.Email.Address() == "ana@x.com" &&
			got.LastModifiedAt != nil
	})).Return(nil).Once()

	svc := newTestService(m)
	err := svc.Update(context.Background(), UserDTO{ID: 1, FullName: "Ana Maria", Email: "ana@x.com"})

	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestUpdate_EmailChangeWrites(t *testing.T) {
	m := new(MockUserRepository)
	u := newTestUser(t, 1, "Ana", "ana@x.com")
	m.On("GetByID", 1, false).Return(u, nil).Once()
	m.On("GetByEmail", "new@x.com").Return(nil, repo.ErrNotFound).Once()
	m.On("Update", mock.MatchedBy(func(got *entity.User) bool {
		return got.Email.Address() == "new@x.com" && got.LastModifiedAt != nil
	})).Return(nil).Once()

	svc := newTestService(m)
	err := svc.Update(context.Background(), UserDTO{ID: 1, FullName: "Ana", Email: "New@X.com"})

	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestUpdate_ConflictWhenEmailAndNameMatchAnotherRecord(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 1, false).Return(newTestUser(t, 1, "Ana", "ana@x.com"), nil).Once()
	m.On("GetByEmail", "taken@x.com").Return(newTestUser(t, 2, "Ana", "taken@x.com"), nil).Once()

	svc := newTestService(m)
	err := svc.Update(context.Background(), UserDTO{ID: 1, FullName: "Ana", Email: "taken@x.com"})

	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	m.AssertNotCalled(t, "Update", mock.Anything)
}

// The conflict rule is intentionally narrow: a colliding email whose
// owner has a different full name does not block the update.
func TestUpdate_EmailCollisionWithDifferentNamePasses(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 1, false).Return(newTestUser(t, 1, "Ana", "ana@x.com"), nil).Once()
	m.On("GetByEmail", "taken@x.com").Return(newTestUser(t, 2, "Bob", "taken@x.com"), nil).Once()
	m.On("Update", mock.Anything).Return(nil).Once()

	svc := newTestService(m)
	err := svc.Update(context.Background(), UserDTO{ID: 1, FullName: "Ana", Email: "taken@x.com"})

	require.NoError(t, err)
	m.AssertExpectations(t)
}

// --- Delete / Restore ---

func TestDelete_SoftDeletesViaUpdate(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 1, false).Return(newTestUser(t, 1, "Ana", "ana@x.com"), nil).Once()
	m.On("Update", mock.MatchedBy(func(got *entity.User) bool {
		return got.IsDeleted && got.LastModifiedAt != nil
	})).Return(nil).Once()

	svc := newTestService(m)
	err := svc.Delete(context.Background(), UserDTO{ID: 1})

	require.NoError(t, err)
	m.AssertNotCalled(t, "Delete", mock.Anything)
	m.AssertExpectations(t)
}

func TestDelete_UserNotFound(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 9, false).Return(nil, repo.ErrNotFound).Once()

	svc := newTestService(m)
	err := svc.Delete(context.Background(), UserDTO{ID: 9})

	assert.ErrorIs(t, err, ErrUserNotFound)
	m.AssertNotCalled(t, "Update", mock.Anything)
}

func TestRestore_FlipsDeletedFlag(t *testing.T) {
	m := new(MockUserRepository)
	u := newTestUser(t, 1, "Ana", "ana@x.com")
	u.Delete()
	m.On("GetByID", 1, true).Return(u, nil).Once()
	m.On("Update", mock.MatchedBy(func(got *entity.User) bool {
		return !got.IsDeleted && got.LastModifiedAt != nil
	})).Return(nil).Once()

	svc := newTestService(m)
	err := svc.Restore(context.Background(), UserDTO{ID: 1})

	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestRestore_UserNotFound(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 9, true).Return(nil, repo.ErrNotFound).Once()

	svc := newTestService(m)
	err := svc.Restore(context.Background(), UserDTO{ID: 9})

	assert.ErrorIs(t, err, ErrUserNotFound)
	m.AssertNotCalled(t, "Update", mock.Anything)
}

// --- Reads ---

func TestGetByID_TranslatesToWireShape(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 1, true).Return(newTestUser(t, 1, "Ana", "ana@x.com"), nil).Once()

	svc := newTestService(m)
	dto, err := svc.GetByID(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Equal(t, &UserDTO{ID: 1, FullName: "Ana", Email: "ana@x.com"}, dto)
}

func TestGetByID_NotFound(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByID", 1, false).Return(nil, repo.ErrNotFound).Once()

	svc := newTestService(m)
	_, err := svc.GetByID(context.Background(), 1, false)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetOnlyDeleted_ReturnsDeletedSubset(t *testing.T) {
	m := new(MockUserRepository)
	a := newTestUser(t, 1, "Ana", "ana@x.com")
	a.Delete()
	b := newTestUser(t, 2, "Bob", "bob@x.com")
	b.Delete()
	m.On("GetOnlyDeleted").Return([]entity.User{*a, *b}, nil).Once()

	svc := newTestService(m)
	dtos, err := svc.GetOnlyDeleted(context.Background())

	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, 1, dtos[0].ID)
	assert.Equal(t, 2, dtos[1].ID)
}

// --- End-to-end scenario over an in-memory store ---

type fakeUserRepo struct {
	seq   int
	users map[int]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*entity.User{}}
}

func (f *fakeUserRepo) Add(u *entity.User) (int, error) {
	f.seq++
	u.ID = f.seq
	cp := *u
	f.users[u.ID] = &cp
	return u.ID, nil
}

func (f *fakeUserRepo) GetByID(id int, includeDeleted bool) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok || (u.IsDeleted && !includeDeleted) {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetAll(includeDeleted bool) ([]entity.User, error) {
	var out []entity.User
	for _, u := range f.users {
		if u.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email.Address() == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetOnlyDeleted() ([]entity.User, error) {
	var out []entity.User
	for _, u := range f.users {
		if u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, u.ID)
	return nil
}

func TestLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserRepo())

	id, err := svc.Add(ctx, UserDTO{FullName: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = svc.Add(ctx, UserDTO{FullName: "Bob", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	require.NoError(t, svc.Delete(ctx, UserDTO{ID: 1}))

	deleted, err := svc.GetOnlyDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, 1, deleted[0].ID)

	_, err = svc.GetByID(ctx, 1, false)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, svc.Restore(ctx, UserDTO{ID: 1}))

	dto, err := svc.GetByID(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "Ana", dto.FullName)
	assert.Equal(t, "ana@x.com", dto.Email)
}
