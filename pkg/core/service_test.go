package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/foodtracker/pkg/core"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Watchable nor core.Historian.
type MockRepository struct {
	saved   []core.Meal
	hasData bool
	loadErr error
	saveErr error
	saves   int
	reasons []string
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func (m *MockRepository) Load(ctx context.Context) ([]core.Meal, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.hasData {
		return nil, core.ErrNoSavedState
	}
	return core.Clone(m.saved), nil
}

func (m *MockRepository) Save(ctx context.Context, meals []core.Meal) error {
	m.saves++
	if reason, ok := ctx.Value(core.ChangeReasonKey).(string); ok {
		m.reasons = append(m.reasons, reason)
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = core.Clone(meals)
	m.hasData = true
	return nil
}

func TestService_LoadFallsBackToSamples(t *testing.T) {
	repo := &MockRepository{}
	service := core.NewService(repo)
	ctx := context.TODO()

	require.False(t, service.Loaded())

	source, err := service.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.SourceSample, source)
	assert.True(t, service.Loaded())
	assert.True(t, core.Equal(core.SampleMeals(), service.Meals()))

	// Samples are not written until something changes.
	assert.Equal(t, 0, repo.saves)
}

func TestService_LoadErrorFallsBackToSamples(t *testing.T) {
	repo := &MockRepository{loadErr: errors.New("disk on fire")}
	service := core.NewService(repo)

	source, err := service.Load(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, core.SourceSample, source)
	assert.Equal(t, 3, service.Len())
}

func TestService_LoadFromStorage(t *testing.T) {
	soup := core.MustNewMeal("Soup", []byte("png"), 3)
	repo := &MockRepository{saved: []core.Meal{soup}, hasData: true}
	service := core.NewService(repo)

	source, err := service.Load(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, core.SourceStorage, source)

	got, err := service.At(0)
	require.NoError(t, err)
	assert.True(t, got.Equal(soup))
}

func TestService_CRUD(t *testing.T) {
	repo := &MockRepository{}
	service := core.NewService(repo)
	ctx := context.TODO()

	_, err := service.Load(ctx)
	require.NoError(t, err)

	// 1. Add
	soup := core.MustNewMeal("Soup", nil, 3)
	index, err := service.Add(ctx, soup)
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, 1, repo.saves)
	assert.True(t, core.Equal(service.Meals(), repo.saved))

	// 2. Replace
	stew := core.MustNewMeal("Stew", nil, 5)
	require.NoError(t, service.Replace(ctx, 0, stew))
	first, err := service.At(0)
	require.NoError(t, err)
	assert.True(t, first.Equal(stew))
	assert.Equal(t, 2, repo.saves)

	// 3. RemoveAt
	require.NoError(t, service.RemoveAt(ctx, 1))
	assert.Equal(t, 3, service.Len())
	names := []string{}
	for _, m := range repo.saved {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"Stew", "Qurutob", "Soup"}, names)

	// 4. Move
	require.NoError(t, service.Move(ctx, 2, 0))
	first, _ = service.At(0)
	assert.Equal(t, "Soup", first.Name())
	assert.Equal(t, 4, repo.saves)
}

func TestService_IndexErrorsLeaveListUnchanged(t *testing.T) {
	repo := &MockRepository{}
	service := core.NewService(repo)
	ctx := context.TODO()
	_, _ = service.Load(ctx)
	before := service.Meals()

	soup := core.MustNewMeal("Soup", nil, 3)

	assert.ErrorIs(t, service.Replace(ctx, 3, soup), core.ErrIndexOutOfRange)
	assert.ErrorIs(t, service.RemoveAt(ctx, -1), core.ErrIndexOutOfRange)
	assert.ErrorIs(t, service.Move(ctx, 0, 10), core.ErrIndexOutOfRange)
	_, err := service.At(99)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

	assert.True(t, core.Equal(before, service.Meals()))
	assert.Equal(t, 0, repo.saves)
}

func TestService_RejectsZeroMeal(t *testing.T) {
	service := core.NewService(&MockRepository{})
	ctx := context.TODO()
	_, _ = service.Load(ctx)

	_, err := service.Add(ctx, core.Meal{})
	assert.ErrorIs(t, err, core.ErrInvalidMeal)
	assert.ErrorIs(t, service.Replace(ctx, 0, core.Meal{}), core.ErrInvalidMeal)
	assert.Equal(t, 3, service.Len())
}

func TestService_SaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	repo := &MockRepository{saveErr: core.ErrReadOnly}
	var handled []error
	service := core.NewService(repo, core.WithSaveErrorHandler(func(err error) {
		handled = append(handled, err)
	}))
	ctx := context.TODO()
	_, _ = service.Load(ctx)
	events := service.Subscribe()

	index, err := service.Add(ctx, core.MustNewMeal("Soup", nil, 3))
	require.NoError(t, err, "mutations do not surface save failures")
	assert.Equal(t, 3, index)
	assert.Equal(t, 4, service.Len())

	require.Len(t, handled, 1)
	assert.ErrorIs(t, handled[0], core.ErrReadOnly)
	assert.ErrorIs(t, service.LastSaveError(), core.ErrReadOnly)
	assert.ErrorIs(t, service.Save(ctx), core.ErrReadOnly)

	assert.Equal(t, core.EventAdd, (<-events).Type)
	assert.Equal(t, core.EventSaveFailed, (<-events).Type)

	state := service.State().(core.ServiceState)
	assert.NotEmpty(t, state.LastSaveError)
	assert.Nil(t, state.LastSave)

	// Recovery clears the error.
	repo.saveErr = nil
	require.NoError(t, service.Save(ctx))
	assert.NoError(t, service.LastSaveError())
	assert.Len(t, repo.saved, 4)
}

func TestService_ChangeReason(t *testing.T) {
	repo := &MockRepository{}
	service := core.NewService(repo)
	ctx := context.TODO()
	_, _ = service.Load(ctx)

	_, err := service.Add(ctx, core.MustNewMeal("Soup", nil, 3))
	require.NoError(t, err)
	require.Len(t, repo.reasons, 1)
	assert.Equal(t, "feat(meals): add Soup\n\n"+core.Footer, repo.reasons[0])

	custom := context.WithValue(ctx, core.ChangeReasonKey, "fix typo")
	require.NoError(t, service.Replace(custom, 3, core.MustNewMeal("Soupe", nil, 3)))
	assert.Equal(t, "fix typo", repo.reasons[1])
}

func TestService_Subscribe(t *testing.T) {
	service := core.NewService(&MockRepository{})
	ctx := context.TODO()
	_, _ = service.Load(ctx)

	events := service.Subscribe()
	require.NoError(t, service.RemoveAt(ctx, 0))

	e := <-events
	assert.Equal(t, core.EventRemove, e.Type)
	assert.Equal(t, 0, e.Index)
	assert.Equal(t, 2, e.Count)

	e = <-events
	assert.Equal(t, core.EventSave, e.Type)
	assert.Equal(t, -1, e.Index)

	require.NoError(t, service.Close())
	_, ok := <-events
	assert.False(t, ok)
}

func TestService_Unsupported(t *testing.T) {
	service := core.NewService(&MockRepository{})
	ctx := context.TODO()

	_, err := service.Watch(ctx)
	require.Error(t, err)
	assert.Equal(t, "repository does not support watching", err.Error())

	_, err = service.History(ctx, 10)
	assert.Error(t, err)
}

func TestService_Reload(t *testing.T) {
	repo := &MockRepository{}
	service := core.NewService(repo)
	ctx := context.TODO()
	_, _ = service.Load(ctx)

	assert.ErrorIs(t, service.Reload(ctx), core.ErrNoSavedState)
	assert.Equal(t, 3, service.Len())

	repo.saved = []core.Meal{core.MustNewMeal("Soup", nil, 1)}
	repo.hasData = true
	require.NoError(t, service.Reload(ctx))
	assert.Equal(t, 1, service.Len())
}

func TestService_State(t *testing.T) {
	service := core.NewService(&MockRepository{})
	_, _ = service.Load(context.TODO())

	state, ok := service.State().(core.ServiceState)
	require.True(t, ok)
	assert.True(t, state.Loaded)
	assert.Equal(t, core.SourceSample, state.Source)
	assert.Equal(t, 3, state.Count)
	assert.Equal(t, "repository", state.RepositoryType)
	assert.Equal(t, "meal-store", service.ComponentType())
}
