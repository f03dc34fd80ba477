package core

import (
	"fmt"
	"time"
)

// Source tells where the meals currently held by the service came from.
type Source string

const (
	SourceNone    Source = ""
	SourceStorage Source = "storage"
	SourceSample  Source = "sample"
)

// EventType represents the type of change in the meal list.
type EventType string

const (
	EventAdd            EventType = "ADD"
	EventReplace        EventType = "REPLACE"
	EventRemove         EventType = "REMOVE"
	EventMove           EventType = "MOVE"
	EventSave           EventType = "SAVE"
	EventSaveFailed     EventType = "SAVE_FAILED"
	EventExternalModify EventType = "EXTERNAL_MODIFY"
)

// Event represents a change in the meal list or in its archive.
// Index is -1 when the event does not address a single position.
type Event struct {
	Type      EventType
	Index     int
	Count     int
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s (%d meals)", e.Type, e.Count)
	}
	return fmt.Sprintf("%s #%d (%d meals)", e.Type, e.Index, e.Count)
}

func newEvent(t EventType, index, count int) Event {
	return Event{Type: t, Index: index, Count: count, Timestamp: time.Now().Unix()}
}

// Revision is one entry of the archive history, when the repository keeps one.
type Revision struct {
	Hash    string
	Message string
	Time    time.Time
}
