package valueobject

import "fmt"

// HistoryAction tags an audit record with the kind of change it describes.
type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "created"
	HistoryActionUpdated       HistoryAction = "updated"
	HistoryActionStatusChanged HistoryAction = "status_changed"
	HistoryActionAssessed      HistoryAction = "assessed"
	HistoryActionClosed        HistoryAction = "closed"
)

// NewHistoryAction parses a stored action tag.
func NewHistoryAction(s string) (HistoryAction, error) {
	switch a := HistoryAction(s); a {
	case HistoryActionCreated, HistoryActionUpdated, HistoryActionStatusChanged,
		HistoryActionAssessed, HistoryActionClosed:
		return a, nil
	}
	return "", fmt.Errorf("invalid history action: %q", s)
}

func (a HistoryAction) String() string { return string(a) }
