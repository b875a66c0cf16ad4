package qbittorrent

// StatusKind classifies a plain-text status body
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusSuccess
	StatusFailure
)

// Status is the outcome reported by endpoints that answer with a plain-text marker.
// Text always holds the body as received.
type Status struct {
	Kind StatusKind
	Text string
}

// ParseStatus maps "Ok." to success and "Fails." to failure; any other text,
// including the empty string, is kept as StatusOther.
func ParseStatus(text string) Status {
	switch text {
	case "Ok.":
		return Status{Kind: StatusSuccess, Text: text}
	case "Fails.":
		return Status{Kind: StatusFailure, Text: text}
	default:
		return Status{Kind: StatusOther, Text: text}
	}
}

// IsSuccess reports whether the daemon answered "Ok."
func (s Status) IsSuccess() bool {
	return s.Kind == StatusSuccess
}

func (s Status) String() string {
	switch s.Kind {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	default:
		return "Other(" + s.Text + ")"
	}
}
