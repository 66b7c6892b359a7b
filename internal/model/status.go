package model

// CardStatus is the lifecycle state of a production card.
type CardStatus string

const (
	StatusCreated    CardStatus = "created"
	StatusInProgress CardStatus = "in_progress"
	StatusCompleted  CardStatus = "completed"
	StatusCancelled  CardStatus = "cancelled"
	StatusRejected   CardStatus = "rejected"
)

// transitions is the closed set of legal status changes. Completed,
// cancelled and rejected are terminal.
var transitions = map[CardStatus][]CardStatus{
	StatusCreated:    {StatusInProgress, StatusCancelled, StatusRejected},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusRejected},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusRejected:   {},
}

// Valid reports whether s is a known card status.
func (s CardStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s CardStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether moving from s to next is legal.
// A no-op transition (s == next) is always allowed.
func (s CardStatus) CanTransition(next CardStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
