package wallet

import "context"

// Status is the connection status of a wallet session
type Status int

const (
	Idle Status = iota
	Connecting
	Connected
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Error:
		return "error"
	}
	return "unknown"
}

// State is a snapshot of a wallet session.
// Account is set only when Status is Connected, Err only when Status is Error.
type State struct {
	Status  Status
	Account string
	Err     string
}

// Attempt identifies one connection attempt. Ctx is cancelled when the
// session is disconnected or a newer attempt replaces it.
type Attempt struct {
	ID  uint64
	Ctx context.Context
}

// Session holds the wallet connection state for one program run.
// It is not safe for concurrent use: mutate it from the event loop only and
// deliver bridge results back to it as messages.
type Session struct {
	state   State
	attempt uint64
	cancel  context.CancelFunc
}

// NewSession returns a session in the Idle state
func NewSession() *Session {
	return &Session{}
}

// State returns a copy of the current state
func (s *Session) State() State {
	return s.state
}

// Attempt returns the ID of the current connection attempt (0 if none started)
func (s *Session) Attempt() uint64 {
	return s.attempt
}

// BeginConnect moves Idle or Error to Connecting and opens a new attempt
// whose context derives from parent. It reports false and does nothing when
// the session is already Connecting or Connected.
func (s *Session) BeginConnect(parent context.Context) (Attempt, bool) {
	if s.state.Status == Connecting || s.state.Status == Connected {
		return Attempt{}, false
	}
	if parent == nil {
		parent = context.Background()
	}
	s.stopAttempt()

	ctx, cancel := context.WithCancel(parent)
	s.attempt++
	s.cancel = cancel
	s.state = State{Status: Connecting}
	return Attempt{ID: s.attempt, Ctx: ctx}, true
}

// OnConnected moves Connecting to Connected with the given account.
// An empty address counts as a failure.
func (s *Session) OnConnected(address string) {
	if s.state.Status != Connecting {
		return
	}
	if address == "" {
		s.OnFailure(ErrNoAccounts.Error())
		return
	}
	s.stopAttempt()
	s.state = State{Status: Connected, Account: address}
}

// OnFailure moves Connecting to Error with the given message
func (s *Session) OnFailure(message string) {
	if s.state.Status != Connecting {
		return
	}
	if message == "" {
		message = "connection failed"
	}
	s.stopAttempt()
	s.state = State{Status: Error, Err: message}
}

// Resolve applies the outcome of attempt id. Results from an attempt that
// is no longer current are dropped and Resolve reports false. Any error for
// the current attempt, including a cancelled parent context, ends in Error.
func (s *Session) Resolve(id uint64, address string, err error) bool {
	if id == 0 || id != s.attempt || s.state.Status != Connecting {
		return false
	}
	if err != nil {
		s.OnFailure(err.Error())
		return true
	}
	s.OnConnected(address)
	return true
}

// Disconnect resets the session to Idle from any state and cancels an
// in-flight attempt.
func (s *Session) Disconnect() {
	s.stopAttempt()
	s.state = State{Status: Idle}
}

func (s *Session) stopAttempt() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
