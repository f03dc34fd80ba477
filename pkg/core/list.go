package core

// The functions below implement the ordered-sequence semantics of the meal
// list. None of them modifies its input: callers always get a fresh slice.

// Insert appends m to the end of meals. The new meal's index is len(meals).
func Insert(meals []Meal, m Meal) []Meal {
	out := make([]Meal, len(meals), len(meals)+1)
	copy(out, meals)
	return append(out, m)
}

// Replace returns a copy of meals where position i holds m.
func Replace(meals []Meal, i int, m Meal) ([]Meal, error) {
	if err := checkIndex(meals, i); err != nil {
		return nil, err
	}
	out := Clone(meals)
	out[i] = m
	return out, nil
}

// RemoveAt returns a copy of meals without position i.
// Every meal after i moves one position down.
func RemoveAt(meals []Meal, i int) ([]Meal, error) {
	if err := checkIndex(meals, i); err != nil {
		return nil, err
	}
	out := make([]Meal, 0, len(meals)-1)
	out = append(out, meals[:i]...)
	return append(out, meals[i+1:]...), nil
}

// Move returns a copy of meals where the meal at from is now at to.
func Move(meals []Meal, from, to int) ([]Meal, error) {
	if err := checkIndex(meals, from); err != nil {
		return nil, err
	}
	if err := checkIndex(meals, to); err != nil {
		return nil, err
	}
	m := meals[from]
	out, _ := RemoveAt(meals, from)
	out = append(out, Meal{})
	copy(out[to+1:], out[to:])
	out[to] = m
	return out, nil
}

// Clone returns a shallow copy of meals. Meal values are immutable, so a
// shallow copy is enough to avoid aliasing.
func Clone(meals []Meal) []Meal {
	if meals == nil {
		return nil
	}
	out := make([]Meal, len(meals))
	copy(out, meals)
	return out
}

// Equal reports whether a and b hold structurally equal meals in the same order.
func Equal(a, b []Meal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func checkIndex(meals []Meal, i int) error {
	if i < 0 || i >= len(meals) {
		return &IndexError{Index: i, Len: len(meals)}
	}
	return nil
}
