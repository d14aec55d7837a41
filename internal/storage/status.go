package storage

// Status -
type Status string

// defined statuses
const (
	StatusNew      Status = "new"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusReverted Status = "reverted"
	StatusFailed   Status = "failed"
)

// IsFinal - invocation with final status is never touched again
func (s Status) IsFinal() bool {
	switch s {
	case StatusAccepted, StatusReverted, StatusFailed:
		return true
	}
	return false
}
