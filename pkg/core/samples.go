package core

// SampleMeals returns the seed list shown when no saved meals exist.
// The data is hard-coded, so a validation failure here panics.
func SampleMeals() []Meal {
	return []Meal{
		MustNewMeal("Caprese Salad", nil, 4),
		MustNewMeal("Chicken and Potatoes", nil, 5),
		MustNewMeal("Qurutob", nil, 3),
	}
}
