package behavior

import "fmt"

// Status is the result of ticking a node.
type Status int

// The zero Status is invalid so an unset result is never read as an outcome.
const (
	StatusSuccess Status = iota + 1
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	default:
		return fmt.Sprintf("invalid(%d)", int(s))
	}
}

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	return s >= StatusSuccess && s <= StatusRunning
}

// Done reports whether s is a terminal status.
func (s Status) Done() bool {
	return s == StatusSuccess || s == StatusFailure
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("behavior: cannot marshal %s status", s)
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStatus parses the text form produced by Status.String.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "success", "Success", "SUCCESS":
		return StatusSuccess, nil
	case "failure", "Failure", "FAILURE":
		return StatusFailure, nil
	case "running", "Running", "RUNNING":
		return StatusRunning, nil
	default:
		return 0, fmt.Errorf("behavior: unknown status %q", v)
	}
}

// normalize maps anything outside the defined statuses to failure.
func normalize(s Status) Status {
	if s.Valid() {
		return s
	}
	return StatusFailure
}
