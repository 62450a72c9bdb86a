// Package quiz drives a single run through a topic's questions: shuffled
// order, per-answer grading, timed feedback and completion.
package quiz

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vocabquiz/internal/models"
	"vocabquiz/internal/shuffle"
)

// ErrEmptyTopic is returned when a session is requested for a topic without questions
var ErrEmptyTopic = errors.New("topic has no questions")

// Snapshot is a read-only copy of a session's state for rendering
type Snapshot struct {
	SessionID    string    `json:"sessionId"`
	TopicID      string    `json:"topicId"`
	TopicTitle   string    `json:"topicTitle"`
	State        State     `json:"state"`
	Position     int       `json:"position"` // 1-based
	Total        int       `json:"total"`
	Prompt       string    `json:"prompt,omitempty"`
	Input        string    `json:"input"`
	Feedback     *Feedback `json:"feedback,omitempty"`
	Answered     int       `json:"answered"`
	CorrectSoFar int       `json:"correctSoFar"`
	// Version increases with every state transition of the session
	Version uint64 `json:"version"`
}

// Option configures a Session
type Option func(*Session)

// WithID sets the session identifier instead of generating one
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithScheduler replaces the runtime timer used for the feedback delay
func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) { s.scheduler = scheduler }
}

// WithSource sets the randomness used to order the questions
func WithSource(src shuffle.Source) Option {
	return func(s *Session) { s.source = src }
}

// WithDelays overrides the feedback delays
func WithDelays(delays Delays) Option {
	return func(s *Session) { s.delays = delays }
}

// WithLimit caps the number of questions asked; zero asks all of them
func WithLimit(limit int) Option {
	return func(s *Session) { s.limit = limit }
}

// WithOnComplete registers the callback that receives the responses when the
// last question's feedback delay elapses. It is never called for a cancelled session.
func WithOnComplete(fn func([]models.UserResponse)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// WithOnChange registers a callback invoked after every state transition
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithLogger sets the logger used for transition events
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// notification is a callback delivery queued while the session lock is held
type notification struct {
	snapshot  Snapshot
	responses []models.UserResponse
	completed bool
}

// Session is the state machine for one quiz attempt.
// All methods are safe for concurrent use; transitions are serialized.
type Session struct {
	mu sync.Mutex

	id         string
	topicID    string
	topicTitle string

	questions []models.Question
	index     int
	input     string
	responses []models.UserResponse
	feedback  *Feedback
	state     State

	// generation is bumped whenever a pending advance becomes stale
	generation uint64
	version    uint64
	timer      Timer

	pending     []notification
	dispatching bool

	scheduler  Scheduler
	source     shuffle.Source
	delays     Delays
	limit      int
	onComplete func([]models.UserResponse)
	onChange   func(Snapshot)
	logger     zerolog.Logger
}

// New starts a session over the topic's questions in a freshly shuffled order
func New(topic models.Topic, opts ...Option) (*Session, error) {
	if len(topic.Questions) == 0 {
		return nil, ErrEmptyTopic
	}

	s := &Session{
		id:         uuid.New().String(),
		topicID:    topic.ID,
		topicTitle: topic.Title,
		state:      StateLoading,
		scheduler:  NewScheduler(),
		delays:     DefaultDelays(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.start(topic.Questions)
	return s, nil
}

// start fixes the question order for the lifetime of the session
func (s *Session) start(questions []models.Question) {
	s.questions = shuffle.ShuffleWithLimit(questions, s.limit, s.source)
	s.responses = make([]models.UserResponse, 0, len(s.questions))
	s.index = 0
	s.state = StateAwaitingInput
	s.version = 1

	s.logger.Debug().
		Str("session_id", s.id).
		Str("topic_id", s.topicID).
		Int("questions", len(s.questions)).
		Msg("quiz session started")
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// TopicID returns the identifier of the topic being quizzed
func (s *Session) TopicID() string {
	return s.topicID
}

// State returns the current phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions returns the questions in presentation order
func (s *Session) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Responses returns the answers recorded so far, in presentation order
func (s *Session) Responses() []models.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserResponse, len(s.responses))
	copy(out, s.responses)
	return out
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetInput replaces the input buffer. It is ignored unless the session is
// awaiting an answer.
func (s *Session) SetInput(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingInput {
		return false
	}
	s.input = text
	return true
}

// SubmitAnswer sets the input buffer to text and submits it. Both happen
// under one lock hold, so the text graded is always this call's text.
func (s *Session) SubmitAnswer(text string) (Feedback, bool) {
	s.mu.Lock()
	if s.state == StateAwaitingInput {
		s.input = text
	}
	fb, ok := s.submitLocked()
	s.mu.Unlock()

	if ok {
		s.dispatch()
	}
	return fb, ok
}

// Submit grades the input buffer against the current question. It is a no-op,
// reported by ok=false, while feedback is showing, after the session has ended,
// or when the buffer holds only whitespace.
func (s *Session) Submit() (Feedback, bool) {
	s.mu.Lock()
	fb, ok := s.submitLocked()
	s.mu.Unlock()

	if ok {
		s.dispatch()
	}
	return fb, ok
}

func (s *Session) submitLocked() (Feedback, bool) {
	if s.state != StateAwaitingInput || strings.TrimSpace(s.input) == "" {
		return Feedback{}, false
	}

	q := s.questions[s.index]
	response := Grade(q, s.input)
	s.responses = append(s.responses, response)

	fb := FeedbackFor(q, response.IsCorrect)
	s.feedback = &fb
	s.state = StateShowingFeedback
	s.version++

	gen := s.generation
	s.timer = s.scheduler.AfterFunc(s.delays.forResult(response.IsCorrect), func() {
		s.advance(gen)
	})

	s.logger.Debug().
		Str("session_id", s.id).
		Str("question_id", q.ID).
		Int("index", s.index).
		Bool("correct", response.IsCorrect).
		Msg("answer graded")

	s.queueLocked(notification{snapshot: s.snapshotLocked()})
	return fb, true
}

// advance leaves the feedback phase. It runs from the feedback timer and does
// nothing if the timer belongs to an earlier generation.
func (s *Session) advance(gen uint64) {
	s.mu.Lock()

	if gen != s.generation || s.state != StateShowingFeedback {
		s.mu.Unlock()
		s.logger.Debug().Str("session_id", s.id).Msg("stale feedback timer ignored")
		return
	}

	s.generation++
	s.version++
	s.timer = nil
	s.feedback = nil
	s.input = ""

	n := notification{}
	if s.index+1 < len(s.questions) {
		s.index++
		s.state = StateAwaitingInput
	} else {
		s.state = StateCompleted
		n.completed = true
		n.responses = make([]models.UserResponse, len(s.responses))
		copy(n.responses, s.responses)

		s.logger.Debug().
			Str("session_id", s.id).
			Int("answered", len(s.responses)).
			Int("correct", models.CountCorrect(s.responses)).
			Msg("quiz session completed")
	}
	n.snapshot = s.snapshotLocked()

	s.queueLocked(n)
	s.mu.Unlock()

	s.dispatch()
}

// Cancel aborts the session without producing results and stops any pending
// feedback timer. It reports whether the session was still live.
func (s *Session) Cancel() bool {
	s.mu.Lock()

	if s.state.Terminal() {
		s.mu.Unlock()
		return false
	}

	s.generation++
	s.version++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.feedback = nil
	s.input = ""
	s.state = StateCancelled

	s.logger.Debug().Str("session_id", s.id).Int("index", s.index).Msg("quiz session cancelled")

	s.queueLocked(notification{snapshot: s.snapshotLocked()})
	s.mu.Unlock()

	s.dispatch()
	return true
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:    s.id,
		TopicID:      s.topicID,
		TopicTitle:   s.topicTitle,
		State:        s.state,
		Total:        len(s.questions),
		Input:        s.input,
		Answered:     len(s.responses),
		CorrectSoFar: models.CountCorrect(s.responses),
		Version:      s.version,
	}

	if len(s.questions) > 0 {
		snap.Position = s.index + 1
	}
	if s.state == StateAwaitingInput || s.state == StateShowingFeedback {
		snap.Prompt = s.questions[s.index].Prompt
	}
	if s.feedback != nil {
		fb := *s.feedback
		snap.Feedback = &fb
	}

	return snap
}

func (s *Session) queueLocked(n notification) {
	if s.onChange == nil && (s.onComplete == nil || !n.completed) {
		return
	}
	s.pending = append(s.pending, n)
}

// dispatch delivers queued notifications in order without holding the lock.
// Only one goroutine drains at a time so callbacks observe transitions in the
// order they happened.
func (s *Session) dispatch() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, n := range batch {
			if s.onChange != nil {
				s.onChange(n.snapshot)
			}
			if n.completed && s.onComplete != nil {
				s.onComplete(n.responses)
			}
		}

		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}
