package drill

import (
	"github.com/abhisek/lingodrill/internal/session"
)

// sessionReadyMsg is sent once a session is open for drilling.
type sessionReadyMsg struct {
	Err error
}

// NextItemMsg asks the drill to present a new item.
type NextItemMsg struct{}

// restartedMsg is sent after the session was ended and a new one started.
type restartedMsg struct {
	Ended *session.Session
	// Manual is true when the learner ended the session, false when the
	// items ran out.
	Manual bool
	Err    error
}

// exportedMsg reports the outcome of a history export.
type exportedMsg struct {
	Sessions int
	Path     string
	Err      error
}

// pronouncedMsg reports the outcome of playing the original text.
type pronouncedMsg struct {
	Err error
}
