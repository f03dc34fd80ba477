package core

import (
	"bytes"
	"fmt"
)

// Rating bounds accepted by NewMeal.
const (
	MinRating = 0
	MaxRating = 5
)

// Meal is the central entity of the domain.
// It represents one record of the meal list: a name, an optional photo and a
// star rating. A Meal can only be built through NewMeal, so every non-zero
// value satisfies the rating and name invariants.
type Meal struct {
	name   string
	photo  []byte
	rating int
}

// NewMeal validates the inputs and returns a Meal.
//
// The name must not be empty. It is not trimmed, so " " is a valid name.
// The rating must be between MinRating and MaxRating inclusively.
// An empty photo is stored as "no photo".
func NewMeal(name string, photo []byte, rating int) (Meal, error) {
	if name == "" {
		return Meal{}, &ValidationError{Field: "name", Value: name, Err: ErrInvalidName}
	}
	if rating < MinRating || rating > MaxRating {
		return Meal{}, &ValidationError{Field: "rating", Value: rating, Err: ErrInvalidRating}
	}

	return Meal{
		name:   name,
		photo:  clonePhoto(photo),
		rating: rating,
	}, nil
}

// MustNewMeal is like NewMeal but panics if the inputs are invalid.
// It is meant for hard-coded data only.
func MustNewMeal(name string, photo []byte, rating int) Meal {
	m, err := NewMeal(name, photo, rating)
	if err != nil {
		panic(fmt.Sprintf("unable to instantiate meal %q: %v", name, err))
	}
	return m
}

// Name returns the meal name.
func (m Meal) Name() string { return m.name }

// Photo returns a copy of the photo bytes, or nil when the meal has no photo.
func (m Meal) Photo() []byte { return clonePhoto(m.photo) }

// HasPhoto reports whether the meal carries a photo.
func (m Meal) HasPhoto() bool { return len(m.photo) > 0 }

// Rating returns the star rating.
func (m Meal) Rating() int { return m.rating }

// IsZero reports whether m is the zero Meal, i.e. it was not built by NewMeal.
func (m Meal) IsZero() bool { return m.name == "" }

// Equal reports structural equality.
func (m Meal) Equal(other Meal) bool {
	return m.name == other.name &&
		m.rating == other.rating &&
		bytes.Equal(m.photo, other.photo)
}

// WithName returns a copy of m with a new name, validated like NewMeal.
func (m Meal) WithName(name string) (Meal, error) {
	return NewMeal(name, m.photo, m.rating)
}

// WithPhoto returns a copy of m with a new photo. A nil photo removes it.
func (m Meal) WithPhoto(photo []byte) (Meal, error) {
	return NewMeal(m.name, photo, m.rating)
}

// WithRating returns a copy of m with a new rating, validated like NewMeal.
func (m Meal) WithRating(rating int) (Meal, error) {
	return NewMeal(m.name, m.photo, rating)
}

func (m Meal) String() string {
	photo := "no photo"
	if m.HasPhoto() {
		photo = fmt.Sprintf("photo %d bytes", len(m.photo))
	}
	return fmt.Sprintf("%s (%d/%d, %s)", m.name, m.rating, MaxRating, photo)
}

func clonePhoto(photo []byte) []byte {
	if len(photo) == 0 {
		return nil
	}
	return bytes.Clone(photo)
}
