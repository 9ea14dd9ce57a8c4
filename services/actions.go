package services

// QueueAction is the closed set of transitions a salon can apply to a
// queue entry. Anything else is rejected at the boundary.
type QueueAction string

const (
	ActionNext     QueueAction = "next"
	ActionSkip     QueueAction = "skip"
	ActionComplete QueueAction = "complete"
)

func ParseQueueAction(s string) (QueueAction, error) {
	switch QueueAction(s) {
	case ActionNext, ActionSkip, ActionComplete:
		return QueueAction(s), nil
	default:
		return "", ErrInvalidAction
	}
}
