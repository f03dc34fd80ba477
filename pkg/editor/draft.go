// Package editor holds the state of the meal detail screen: a draft that is
// either a new meal or an edit of an existing one, and that is committed to
// the store when the user saves.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/foodtracker/pkg/core"
	"github.com/aretw0/foodtracker/pkg/rating"
)

// NewMealTitle is the title of a draft without a name.
const NewMealTitle = "New Meal"

// ErrCannotSave is returned by Commit when the draft has no name.
var ErrCannotSave = errors.New("draft cannot be saved")

// Store is the part of the meal store a draft writes to.
type Store interface {
	Add(ctx context.Context, m core.Meal) (int, error)
	Replace(ctx context.Context, i int, m core.Meal) error
}

// PhotoPicker asks the user for a photo. It returns false when the user
// cancels.
type PhotoPicker func() (photo []byte, ok bool)

// Draft is an unsaved meal.
type Draft struct {
	index  int
	name   string
	photo  []byte
	rating *rating.Control
}

// NewDraft starts a draft for a meal that is not in the store yet.
func NewDraft() *Draft {
	return &Draft{
		index:  -1,
		rating: rating.New(core.MaxRating),
	}
}

// EditDraft starts a draft for the meal currently stored at index.
func EditDraft(index int, m core.Meal) *Draft {
	d := &Draft{
		index:  index,
		name:   m.Name(),
		photo:  m.Photo(),
		rating: rating.New(core.MaxRating),
	}
	d.rating.SetRating(m.Rating())
	return d
}

// IsNew reports whether committing the draft adds a meal.
func (d *Draft) IsNew() bool { return d.index < 0 }

// Index returns the store position being edited, or -1 for a new meal.
func (d *Draft) Index() int { return d.index }

// Name returns the current name.
func (d *Draft) Name() string { return d.name }

// SetName changes the name.
func (d *Draft) SetName(name string) { d.name = name }

// Photo returns the current photo, or nil.
func (d *Draft) Photo() []byte { return d.photo }

// SetPhoto replaces the photo. A nil photo removes it.
func (d *Draft) SetPhoto(photo []byte) { d.photo = photo }

// PickPhoto runs picker and keeps its photo. A cancelled pick leaves the
// draft untouched and returns false.
func (d *Draft) PickPhoto(picker PhotoPicker) bool {
	photo, ok := picker()
	if !ok {
		return false
	}
	d.photo = photo
	return true
}

// Rating returns the star control bound to the draft.
func (d *Draft) Rating() *rating.Control { return d.rating }

// CanSave reports whether the draft may be committed.
func (d *Draft) CanSave() bool { return d.name != "" }

// Title is the name of the meal, or NewMealTitle while it has none.
func (d *Draft) Title() string {
	if d.name == "" {
		return NewMealTitle
	}
	return d.name
}

// Meal validates the draft and returns the meal it describes.
func (d *Draft) Meal() (core.Meal, error) {
	return core.NewMeal(d.name, d.photo, d.rating.Rating())
}

// Commit writes the draft to store: a new draft is added, an edit replaces
// the meal at its index. It returns the index the meal ends up at.
func (d *Draft) Commit(ctx context.Context, store Store) (int, error) {
	if !d.CanSave() {
		return -1, ErrCannotSave
	}

	m, err := d.Meal()
	if err != nil {
		return -1, fmt.Errorf("%w: %w", ErrCannotSave, err)
	}

	if d.IsNew() {
		index, err := store.Add(ctx, m)
		if err != nil {
			return -1, err
		}
		// Further commits update the meal just added.
		d.index = index
		return index, nil
	}

	if err := store.Replace(ctx, d.index, m); err != nil {
		return -1, err
	}
	return d.index, nil
}
