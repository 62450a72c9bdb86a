package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vocabquiz/internal/models"
	"vocabquiz/internal/quiz"
	"vocabquiz/internal/results"
	"vocabquiz/internal/shuffle"
)

var (
	// ErrNoActiveQuiz is returned when the learner has no quiz in progress or finished
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrQuizInProgress is returned when results are requested before the last answer
	ErrQuizInProgress = errors.New("quiz still in progress")
)

// Event types pushed to a learner's connections
const (
	EventSessionUpdate    = "session_update"
	EventSessionCompleted = "session_completed"
	EventSessionCancelled = "session_cancelled"
)

// Event is a session change delivered to a learner
type Event struct {
	Type     string          `json:"type"`
	Snapshot quiz.Snapshot   `json:"snapshot"`
	Report   *results.Report `json:"report,omitempty"`
}

// Notifier receives session events for a learner
type Notifier interface {
	Notify(learnerID string, event Event)
}

// TopicLookup resolves a topic by ID
type TopicLookup interface {
	Get(id string) (models.Topic, error)
}

// QuizConfig holds the tunables for new sessions
type QuizConfig struct {
	Delays       quiz.Delays
	MaxQuestions int
	Scheduler    quiz.Scheduler
	Source       shuffle.Source
	Notifier     Notifier
	Logger       zerolog.Logger
}

// activeQuiz is a learner's current session and, once complete, its report
type activeQuiz struct {
	session      *quiz.Session
	topic        models.Topic
	report       *results.Report
	lastActivity time.Time
}

// QuizService keeps at most one quiz per learner
type QuizService struct {
	topics TopicLookup
	cfg    QuizConfig

	mu      sync.RWMutex
	quizzes map[string]*activeQuiz
}

// NewQuizService creates a new quiz service
func NewQuizService(topics TopicLookup, cfg QuizConfig) *QuizService {
	if cfg.Delays == (quiz.Delays{}) {
		cfg.Delays = quiz.DefaultDelays()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = quiz.NewScheduler()
	}
	return &QuizService{
		topics:  topics,
		cfg:     cfg,
		quizzes: make(map[string]*activeQuiz),
	}
}

// Start begins a quiz on topicID for the learner, cancelling any quiz they
// already have
func (s *QuizService) Start(ctx context.Context, learnerID, topicID string) (quiz.Snapshot, error) {
	topic, err := s.topics.Get(topicID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return s.start(learnerID, topic)
}

func (s *QuizService) start(learnerID string, topic models.Topic) (quiz.Snapshot, error) {
	entry := &activeQuiz{topic: topic, lastActivity: time.Now()}

	opts := []quiz.Option{
		quiz.WithScheduler(s.cfg.Scheduler),
		quiz.WithDelays(s.cfg.Delays),
		quiz.WithLimit(s.cfg.MaxQuestions),
		quiz.WithLogger(s.cfg.Logger),
		quiz.WithOnChange(func(snap quiz.Snapshot) { s.onChange(learnerID, entry, snap) }),
		quiz.WithOnComplete(func(responses []models.UserResponse) { s.onComplete(learnerID, entry, responses) }),
	}
	if s.cfg.Source != nil {
		opts = append(opts, quiz.WithSource(s.cfg.Source))
	}

	session, err := quiz.New(topic, opts...)
	if err != nil {
		return quiz.Snapshot{}, fmt.Errorf("failed to start quiz on %s: %w", topic.ID, err)
	}
	entry.session = session

	s.mu.Lock()
	previous := s.quizzes[learnerID]
	s.quizzes[learnerID] = entry
	s.mu.Unlock()

	if previous != nil && previous.session.Cancel() {
		s.cfg.Logger.Info().
			Str("learner_id", learnerID).
			Str("session_id", previous.session.ID()).
			Msg("previous quiz cancelled by new start")
	}

	s.cfg.Logger.Info().
		Str("learner_id", learnerID).
		Str("session_id", session.ID()).
		Str("topic_id", topic.ID).
		Int("questions", len(session.Questions())).
		Msg("quiz started")

	snap := session.Snapshot()
	s.notify(learnerID, Event{Type: EventSessionUpdate, Snapshot: snap})
	return snap, nil
}

// Restart starts a fresh quiz on the same topic as the learner's last one
func (s *QuizService) Restart(ctx context.Context, learnerID string) (quiz.Snapshot, error) {
	entry, err := s.get(learnerID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return s.start(learnerID, entry.topic)
}

// Submit grades answer against the learner's current question. accepted is
// false when the session ignored the submission.
func (s *QuizService) Submit(learnerID, answer string) (fb quiz.Feedback, snap quiz.Snapshot, accepted bool, err error) {
	entry, err := s.touch(learnerID)
	if err != nil {
		return quiz.Feedback{}, quiz.Snapshot{}, false, err
	}

	fb, accepted = entry.session.SubmitAnswer(answer)
	return fb, entry.session.Snapshot(), accepted, nil
}

// Snapshot returns the learner's current session state
func (s *QuizService) Snapshot(learnerID string) (quiz.Snapshot, error) {
	entry, err := s.get(learnerID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return entry.session.Snapshot(), nil
}

// Cancel abandons the learner's quiz and forgets it. It reports whether a
// live session was stopped.
func (s *QuizService) Cancel(learnerID string) bool {
	s.mu.Lock()
	entry, ok := s.quizzes[learnerID]
	delete(s.quizzes, learnerID)
	s.mu.Unlock()

	if !ok {
		return false
	}

	cancelled := entry.session.Cancel()
	if cancelled {
		s.cfg.Logger.Info().
			Str("learner_id", learnerID).
			Str("session_id", entry.session.ID()).
			Msg("quiz cancelled")
		s.notify(learnerID, Event{Type: EventSessionCancelled, Snapshot: entry.session.Snapshot()})
	}
	return cancelled
}

// Results returns the report and topic of the learner's completed quiz
func (s *QuizService) Results(learnerID string) (*results.Report, models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.quizzes[learnerID]
	if !ok {
		return nil, models.Topic{}, ErrNoActiveQuiz
	}
	if entry.report == nil {
		return nil, entry.topic, ErrQuizInProgress
	}
	return entry.report, entry.topic, nil
}

// ActiveCount returns the number of learners with a quiz
func (s *QuizService) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quizzes)
}

// PruneIdle cancels and forgets quizzes untouched for longer than maxIdle
func (s *QuizService) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*activeQuiz
	for learnerID, entry := range s.quizzes {
		if entry.lastActivity.Before(cutoff) {
			stale = append(stale, entry)
			delete(s.quizzes, learnerID)
		}
	}
	s.mu.Unlock()

	for _, entry := range stale {
		entry.session.Cancel()
	}
	return len(stale)
}

func (s *QuizService) get(learnerID string) (*activeQuiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.quizzes[learnerID]
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	return entry, nil
}

func (s *QuizService) touch(learnerID string) (*activeQuiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.quizzes[learnerID]
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	entry.lastActivity = time.Now()
	return entry, nil
}

func (s *QuizService) isCurrent(learnerID string, entry *activeQuiz) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizzes[learnerID] == entry
}

// onChange forwards in-progress transitions; completion and cancellation
// are announced separately
func (s *QuizService) onChange(learnerID string, entry *activeQuiz, snap quiz.Snapshot) {
	if snap.State.Terminal() || !s.isCurrent(learnerID, entry) {
		return
	}
	s.notify(learnerID, Event{Type: EventSessionUpdate, Snapshot: snap})
}

func (s *QuizService) onComplete(learnerID string, entry *activeQuiz, responses []models.UserResponse) {
	report := results.NewReport(responses)

	s.mu.Lock()
	current := s.quizzes[learnerID] == entry
	if current {
		entry.report = &report
	}
	s.mu.Unlock()

	if !current {
		return
	}

	s.cfg.Logger.Info().
		Str("learner_id", learnerID).
		Str("session_id", entry.session.ID()).
		Int("correct", report.Correct).
		Int("total", report.Total).
		Int("accuracy", report.Accuracy).
		Msg("quiz completed")

	s.notify(learnerID, Event{Type: EventSessionCompleted, Snapshot: entry.session.Snapshot(), Report: &report})
}

func (s *QuizService) notify(learnerID string, event Event) {
	if s.cfg.Notifier != nil {
		s.cfg.Notifier.Notify(learnerID, event)
	}
}
