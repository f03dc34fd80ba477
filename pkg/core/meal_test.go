package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/foodtracker/pkg/core"
)

func photoGen() *rapid.Generator[[]byte] {
	return rapid.SliceOfN(rapid.Byte(), 0, 64)
}

func mealGen() *rapid.Generator[core.Meal] {
	return rapid.Custom(func(t *rapid.T) core.Meal {
		name := rapid.StringN(1, 32, -1).Draw(t, "name")
		photo := photoGen().Draw(t, "photo")
		rating := rapid.IntRange(core.MinRating, core.MaxRating).Draw(t, "rating")
		return core.MustNewMeal(name, photo, rating)
	})
}

func TestNewMeal_EmptyNameAlwaysFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rating := rapid.Int().Draw(rt, "rating")
		photo := photoGen().Draw(rt, "photo")

		_, err := core.NewMeal("", photo, rating)
		require.ErrorIs(rt, err, core.ErrInvalidName)
	})
}

func TestNewMeal_RatingOutOfRangeFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringN(1, 32, -1).Draw(rt, "name")
		rating := rapid.OneOf(rapid.IntMax(core.MinRating-1), rapid.IntMin(core.MaxRating+1)).Draw(rt, "rating")

		_, err := core.NewMeal(name, nil, rating)
		require.ErrorIs(rt, err, core.ErrInvalidRating)
	})
}

func TestNewMeal_ValidInputsAreKept(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringN(1, 32, -1).Draw(rt, "name")
		photo := photoGen().Draw(rt, "photo")
		rating := rapid.IntRange(core.MinRating, core.MaxRating).Draw(rt, "rating")

		m, err := core.NewMeal(name, photo, rating)
		require.NoError(rt, err)
		assert.Equal(rt, name, m.Name())
		assert.Equal(rt, rating, m.Rating())
		if len(photo) == 0 {
			assert.Nil(rt, m.Photo())
			assert.False(rt, m.HasPhoto())
		} else {
			assert.Equal(rt, photo, m.Photo())
			assert.True(rt, m.HasPhoto())
		}
	})
}

func TestNewMeal_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rating  int
		wantErr error
	}{
		{name: "empty name", input: "", rating: 3, wantErr: core.ErrInvalidName},
		{name: "rating too high", input: "Soup", rating: 7, wantErr: core.ErrInvalidRating},
		{name: "negative rating", input: "Soup", rating: -1, wantErr: core.ErrInvalidRating},
		{name: "empty name wins over bad rating", input: "", rating: 9, wantErr: core.ErrInvalidName},
		{name: "whitespace name is not trimmed", input: " ", rating: 0},
		{name: "valid", input: "Soup", rating: 3},
		{name: "max rating", input: "Soup", rating: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := core.NewMeal(tt.input, nil, tt.rating)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, m.IsZero())

				var verr *core.ValidationError
				require.True(t, errors.As(err, &verr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, m.Name())
			assert.Equal(t, tt.rating, m.Rating())
			assert.Nil(t, m.Photo())
		})
	}
}

func TestMeal_PhotoIsNotAliased(t *testing.T) {
	photo := []byte{1, 2, 3}
	m, err := core.NewMeal("Soup", photo, 3)
	require.NoError(t, err)

	photo[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, m.Photo())

	got := m.Photo()
	got[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, m.Photo())
}

func TestMeal_With(t *testing.T) {
	m := core.MustNewMeal("Soup", nil, 3)

	renamed, err := m.WithName("Stew")
	require.NoError(t, err)
	assert.Equal(t, "Stew", renamed.Name())
	assert.Equal(t, "Soup", m.Name())

	_, err = m.WithName("")
	assert.ErrorIs(t, err, core.ErrInvalidName)

	_, err = m.WithRating(6)
	assert.ErrorIs(t, err, core.ErrInvalidRating)

	withPhoto, err := m.WithPhoto([]byte("img"))
	require.NoError(t, err)
	assert.True(t, withPhoto.HasPhoto())
	assert.False(t, withPhoto.Equal(m))

	cleared, err := withPhoto.WithPhoto(nil)
	require.NoError(t, err)
	assert.True(t, cleared.Equal(m))
}

func TestMustNewMeal_Panics(t *testing.T) {
	assert.Panics(t, func() { core.MustNewMeal("", nil, 1) })
}

func TestSampleMeals(t *testing.T) {
	meals := core.SampleMeals()
	require.Len(t, meals, 3)

	want := []struct {
		name   string
		rating int
	}{
		{"Caprese Salad", 4},
		{"Chicken and Potatoes", 5},
		{"Qurutob", 3},
	}
	for i, w := range want {
		assert.Equal(t, w.name, meals[i].Name())
		assert.Equal(t, w.rating, meals[i].Rating())
	}
}
