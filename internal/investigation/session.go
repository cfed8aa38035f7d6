// Package investigation owns the lifecycle of one investigation: collecting
// evidence, running the analysis and holding the resulting report.
package investigation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/myrjola/dockwatch/internal/ai"
	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/evidence"
	"github.com/myrjola/dockwatch/internal/models"
)

// State is the explicit session state. Keeping it a tagged value instead of
// ad hoc booleans makes illegal combinations unrepresentable.
type State int

const (
	// Collecting accepts evidence uploads and note edits.
	Collecting State = iota
	// Analyzing has one analysis request in flight and rejects submissions.
	Analyzing
	// Reported holds a finished report until an explicit reset.
	Reported
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Analyzing:
		return "analyzing"
	case Reported:
		return "reported"
	default:
		return "unknown"
	}
}

var (
	ErrAnalysisInProgress = errors.NewSentinel("analysis is already in progress")
	ErrNoEvidence         = errors.NewSentinel("no evidence provided")
)

// NoEvidenceMessage is surfaced when the user submits an empty evidence set.
const NoEvidenceMessage = "Please upload at least one piece of evidence."

// analysisFailedMessage is the generic retry-suggesting message shown for any
// collaborator failure. The underlying cause goes to the log, not the user.
const analysisFailedMessage = "Investigation failed. Please try again or check your API key."

// Session is one investigation. All state transitions happen under its mutex,
// standing in for the single control thread the browser used to provide.
type Session struct {
	mu      sync.Mutex
	state   State
	store   *evidence.Store
	notes   string
	report  *models.InvestigationReport
	errMsg  string
	touched time.Time
	// generation is bumped by Reset so an analysis that was in flight while
	// the lock was released can tell its session has been reset underneath it.
	generation uint64
}

func NewSession() *Session {
	return &Session{ //nolint:exhaustruct // mutex needs no initialization
		state:   Collecting,
		store:   evidence.NewStore(),
		touched: time.Now(),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attach stores an encoded evidence item, replacing any existing item of the
// same category, and clears a previously surfaced error.
func (s *Session) Attach(item evidence.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.store.Put(item)
	s.errMsg = ""
}

// SetNotes updates the free-text investigation notes. Notes are mutable at
// any time before submission; edits during an in-flight analysis are ignored
// since that analysis already snapshotted them.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	if s.state == Analyzing {
		return
	}
	s.notes = notes
}

func (s *Session) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// Evidence returns the current items in insertion order.
func (s *Session) Evidence() []evidence.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

func (s *Session) EvidenceFor(c evidence.Category) (evidence.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(c)
}

func (s *Session) Report() *models.InvestigationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// SetError surfaces an ingestion error inline without touching the evidence.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.errMsg = msg
}

// Submit runs one analysis over the collected evidence.
//
// The Analyzing state is the mutual exclusion: a submission while one is in
// flight returns ErrAnalysisInProgress without calling the analyst. An empty
// evidence set never reaches the analyst either; it surfaces
// NoEvidenceMessage and stays in Collecting. A collaborator failure returns
// the session to Collecting with evidence and notes intact so the user can
// retry without re-uploading.
func (s *Session) Submit(ctx context.Context, analyst ai.Analyst, logger *slog.Logger) error {
	s.mu.Lock()
	s.touched = time.Now()
	if s.state == Analyzing {
		s.mu.Unlock()
		return ErrAnalysisInProgress
	}
	if s.store.Len() == 0 {
		s.errMsg = NoEvidenceMessage
		s.mu.Unlock()
		return ErrNoEvidence
	}
	items := s.store.All()
	notes := s.notes
	generation := s.generation
	s.state = Analyzing
	s.errMsg = ""
	s.mu.Unlock()

	// The blocking remote call happens outside the lock so the session stays
	// readable while Analyzing. No cancellation once issued; the state only
	// prevents re-issuance.
	result, err := analyst.Analyze(ctx, items, notes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	if s.generation != generation {
		// The session was reset while the analysis was in flight. The user
		// discarded the investigation, so the result must not resurrect it.
		logger.LogAttrs(ctx, slog.LevelInfo, "analysis result discarded after reset")
		return nil
	}
	if err != nil {
		s.state = Collecting
		s.errMsg = analysisFailedMessage
		logger.LogAttrs(ctx, slog.LevelError, "analysis failed", errors.SlogError(err))
		return errors.Wrap(err, "analyze evidence")
	}
	s.state = Reported
	s.report = result
	s.errMsg = ""
	return nil
}

// Reset discards all accumulated evidence, notes, report and error and
// returns to the initial state, regardless of the state it was entered from.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.generation++
	s.state = Collecting
	s.store.Clear()
	s.notes = ""
	s.report = nil
	s.errMsg = ""
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}
