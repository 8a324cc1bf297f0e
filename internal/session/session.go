// Package session drives a single transformation submission from input to a settled,
// displayable outcome.
//
// A Session moves through three states:
//
//	Idle --Submit--> InFlight --response--> Settled --Clear--> Idle
//	                                        Settled --Submit--> InFlight
//
// Every submission is stamped with a generation. A response that arrives after a newer
// Submit or a Clear is discarded instead of overwriting the current state.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"fjacquet/reframe-client/internal/apiclient"
	"fjacquet/reframe-client/internal/interpreter"
	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/models"
	"fjacquet/reframe-client/internal/transformerror"
	"fjacquet/reframe-client/internal/xmlutils"
)

// EmptyInputMessage is the validation failure for blank submissions.
const EmptyInputMessage = "Please enter a SWIFT MT message"

// ErrStaleResponse is returned by Submit when its response was superseded.
var ErrStaleResponse = errors.New("stale response discarded")

// State is the lifecycle position of a Session.
type State int

const (
	Idle State = iota
	InFlight
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// Transport sends a request to the transformation service. An error means no response
// was received.
type Transport interface {
	Transform(ctx context.Context, req models.TransformRequest) (*apiclient.Response, error)
}

// Snapshot is an immutable view of a Session. Request is set while InFlight and
// Settled, Outcome only when Settled.
type Snapshot struct {
	State      State
	Generation uint64
	Request    *models.TransformRequest
	Outcome    *models.TransformOutcome
}

// Observer is notified of every transition, in transition order. Observers run
// without the session lock held and may call back into the session; a transition
// they cause is delivered after the current notification round completes.
type Observer func(Snapshot)

type subscription struct {
	id int
	fn Observer
}

// Session owns one request lifecycle at a time. It is safe for concurrent use.
type Session struct {
	transport   Transport
	interpreter *interpreter.Interpreter
	logger      logging.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	request    *models.TransformRequest
	outcome    *models.TransformOutcome
	observers  []subscription
	nextID     int

	// pending holds snapshots not yet delivered; delivering is set while one
	// goroutine drains it.
	pending    []Snapshot
	delivering bool
}

// New creates an idle Session. A nil interpreter gets a default one sharing logger.
func New(transport Transport, interp *interpreter.Interpreter, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if interp == nil {
		interp = interpreter.New(logger)
	}
	return &Session{
		transport:   transport,
		interpreter: interp,
		logger:      logger,
	}
}

// Submit sends text to the service and settles the session with the outcome.
//
// Blank text is rejected with a ValidationError outcome and leaves the session
// untouched. Failures reported by the service or the network are returned as a
// Failure outcome with a nil error; the only error is ErrStaleResponse, returned
// together with the discarded outcome.
func (s *Session) Submit(ctx context.Context, text string) (models.TransformOutcome, error) {
	if strings.TrimSpace(text) == "" {
		s.logger.Debug("Rejected blank submission", logging.F(logging.FieldKind, transformerror.ValidationError))
		return models.Failed(transformerror.ValidationError, EmptyInputMessage), nil
	}

	req := models.NewTransformRequest(text)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = InFlight
	s.request = &req
	s.outcome = nil
	s.notifyLocked()
	s.mu.Unlock()
	s.deliver()

	log := s.logger.WithFields(
		logging.F(logging.FieldRequestID, req.ID),
		logging.F(logging.FieldGeneration, gen))
	log.Info("Submitting message for transformation")

	var outcome models.TransformOutcome
	resp, err := s.transport.Transform(ctx, req)
	if err != nil {
		outcome = s.interpreter.ConnectionFailure(err)
	} else {
		outcome = s.interpreter.Interpret(resp.StatusCode, resp.Body)
	}
	outcome = present(outcome, log)

	s.mu.Lock()
	if gen != s.generation {
		current := s.generation
		s.mu.Unlock()
		log.Warn("Discarding stale response", logging.F("current_generation", current))
		return outcome, ErrStaleResponse
	}
	s.state = Settled
	s.outcome = &outcome
	s.notifyLocked()
	s.mu.Unlock()
	s.deliver()

	if outcome.IsSuccess() {
		log.Info("Transformation settled",
			logging.F(logging.FieldDocuments, len(outcome.Success.Documents)),
			logging.F(logging.FieldMessageType, outcome.Success.MessageType),
			logging.F(logging.FieldShape, outcome.Success.Shape))
	} else {
		log.Warn("Transformation failed",
			logging.F(logging.FieldKind, outcome.Failure.Kind),
			logging.F(logging.FieldError, outcome.Failure.Message))
	}
	return outcome, nil
}

// Clear discards the current outcome and returns to Idle. A submission still in
// flight will have its response discarded.
func (s *Session) Clear() {
	s.mu.Lock()
	s.generation++
	s.state = Idle
	s.request = nil
	s.outcome = nil
	s.notifyLocked()
	s.mu.Unlock()
	s.deliver()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers o for transitions and returns a function that removes it.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, subscription{id: id, fn: o})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State:      s.state,
		Generation: s.generation,
		Request:    s.request,
		Outcome:    s.outcome,
	}
}

// notifyLocked queues the current state for observers. Callers must run deliver
// once the lock is released.
func (s *Session) notifyLocked() {
	snap := s.snapshotLocked()
	s.logger.Debug("Session transition",
		logging.F(logging.FieldState, snap.State.String()),
		logging.F(logging.FieldGeneration, snap.Generation))
	if len(s.observers) > 0 {
		s.pending = append(s.pending, snap)
	}
}

// deliver drains the pending queue outside the lock. Only one goroutine delivers at a
// time; others leave their snapshots to it, so observers see transitions in order.
func (s *Session) deliver() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		observers := append([]subscription(nil), s.observers...)
		s.mu.Unlock()

		for _, snap := range batch {
			for _, sub := range observers {
				sub.fn(snap)
			}
		}

		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

// present fills in the formatted rendering and summary of every document.
func present(outcome models.TransformOutcome, logger logging.Logger) models.TransformOutcome {
	if !outcome.IsSuccess() {
		return outcome
	}
	docs := make([]models.XMLDocument, len(outcome.Success.Documents))
	for i, doc := range outcome.Success.Documents {
		doc.Formatted = xmlutils.Format(doc.Raw)
		if outcome.Success.Shape != models.ShapeJSON {
			summary, err := xmlutils.Summarize(doc.Raw)
			if err != nil {
				logger.WithError(err).Debug("Document could not be summarized")
			}
			doc.Summary = summary
		}
		docs[i] = doc
	}
	return outcome.WithDocuments(docs)
}
