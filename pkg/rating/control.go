// Package rating implements a headless star-rating control.
//
// The control holds the state a star widget renders (which stars are lit and
// what a screen reader announces) without depending on any UI toolkit.
package rating

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultStarCount is the number of stars used when New receives a
// non-positive count.
const DefaultStarCount = 5

// ErrUnknownButton is returned by Tap for a star index the control does not own.
var ErrUnknownButton = errors.New("unknown rating button")

// Control is a row of stars with a rating between 0 and the star count.
// It is safe for concurrent use.
type Control struct {
	mu        sync.RWMutex
	starCount int
	rating    int
	listeners []func(int)
}

// New creates a control with starCount stars and no rating set.
func New(starCount int) *Control {
	if starCount <= 0 {
		starCount = DefaultStarCount
	}
	return &Control{starCount: starCount}
}

// StarCount returns the number of stars.
func (c *Control) StarCount() int {
	return c.starCount
}

// Rating returns the current rating.
func (c *Control) Rating() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rating
}

// SetRating sets the rating, clamped to [0, StarCount].
func (c *Control) SetRating(r int) {
	c.set(max(0, min(r, c.starCount)))
}

// Tap handles a tap on the star at index button (0-based).
// Tapping the star that represents the current rating resets it to zero;
// any other star selects the rating button+1.
func (c *Control) Tap(button int) error {
	if button < 0 || button >= c.starCount {
		return fmt.Errorf("%w: %d (stars %d)", ErrUnknownButton, button, c.starCount)
	}

	selected := button + 1
	if selected == c.Rating() {
		selected = 0
	}
	c.set(selected)
	return nil
}

// Selected reports, for every star, whether it is lit.
func (c *Control) Selected() []bool {
	r := c.Rating()
	states := make([]bool, c.starCount)
	for i := range states {
		states[i] = i < r
	}
	return states
}

// AccessibilityLabel is the short description of the star at index button.
func (c *Control) AccessibilityLabel(button int) string {
	return fmt.Sprintf("Set %d star rating", button+1)
}

// AccessibilityValue describes the current rating. It is the same for every star.
func (c *Control) AccessibilityValue() string {
	switch r := c.Rating(); r {
	case 0:
		return "No rating set."
	case 1:
		return "1 star set."
	default:
		return fmt.Sprintf("%d stars set.", r)
	}
}

// AccessibilityHint returns the hint for the star at index button, or "" when
// tapping it needs no explanation.
func (c *Control) AccessibilityHint(button int) string {
	if c.Rating() == button+1 {
		return "Tap to reset the rating to zero."
	}
	return ""
}

// OnChange registers fn to be called with the new rating after every change.
// Setting the current rating again is not a change.
func (c *Control) OnChange(fn func(rating int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Control) set(r int) {
	c.mu.Lock()
	if r == c.rating {
		c.mu.Unlock()
		return
	}
	c.rating = r
	listeners := append([]func(int){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(r)
	}
}
