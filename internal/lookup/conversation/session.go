// Package conversation drives one chat conversation: pick a search type,
// type the query, get the reply, start over.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	commonerrors "lookup-workers/internal/common/errors"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/lookup/pipeline"
	"lookup-workers/internal/lookup/query"
	"lookup-workers/internal/lookup/report"
	"lookup-workers/internal/models"
)

// State of a conversation.
type State int

const (
	StateIdle State = iota
	StateChoosing
	StateTyping
)

func (s State) String() string {
	switch s {
	case StateChoosing:
		return "choosing"
	case StateTyping:
		return "typing"
	default:
		return "idle"
	}
}

// Callback data carried by the menu buttons.
const (
	ActionPerson    = "fio"
	ActionPhone     = "phone"
	ActionNewSearch = "newsearch"
)

var (
	ErrUnknownAction = errors.New("unknown menu action")
	ErrNotExpecting  = errors.New("input not expected in current state")
	menuButtons      = []Button{{Label: "🧑‍💼 ФИО + дата/год", Data: ActionPerson}, {Label: "📱 Телефон", Data: ActionPhone}}
	newSearchButtons = []Button{{Label: "🔎 Новый поиск", Data: ActionNewSearch}}
)

// Button is an inline choice offered with a reply.
type Button struct {
	Label string
	Data  string
}

// Reply is one outgoing message. Markup is false for text that must be
// sent without a parse mode.
type Reply struct {
	Text    string
	Markup  bool
	Buttons []Button
}

// Sender delivers replies to the user.
type Sender interface {
	Send(ctx context.Context, reply Reply) error
}

// Pipeline is the lookup turn the session drives.
type Pipeline interface {
	Classify(mode models.LookupMode, text string) (query.Query, error)
	Run(ctx context.Context, mode models.LookupMode, text string) (string, error)
	Messages() pipeline.Messages
	Renderer() report.Renderer
}

// Session holds the turn-scoped state of one conversation. Nothing outlives
// a turn.
type Session struct {
	mu       sync.Mutex
	state    State
	mode     models.LookupMode
	pipeline Pipeline
	sender   Sender
	markup   bool
	logger   logger.Logger

	// turn is bumped by Reset; a lookup whose turn no longer matches is
	// discarded. cancel aborts the lookup in flight, if any.
	turn   uint64
	cancel context.CancelFunc
}

func NewSession(p Pipeline, sender Sender, log logger.Logger) *Session {
	return &Session{
		pipeline: p,
		sender:   sender,
		markup:   p.Renderer().Markup(),
		logger:   log.With(map[string]interface{}{"component": "conversation"}),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode is the search type chosen for the current turn, if any.
func (s *Session) Mode() models.LookupMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Start presents the search type menu, abandoning any lookup in flight.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandon()
	return s.presentMenu(ctx)
}

// Reset drops the turn state, abandons a lookup in flight and presents the
// menu again.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandon()
	s.clear()
	return s.presentMenu(ctx)
}

// Choose handles a menu button. A search type can only be picked while the
// menu is shown; new search is always accepted.
func (s *Session) Choose(ctx context.Context, action string) error {
	var mode models.LookupMode
	switch action {
	case ActionNewSearch:
		return s.Reset(ctx)
	case ActionPerson:
		mode = models.LookupModePerson
	case ActionPhone:
		mode = models.LookupModePhone
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateChoosing {
		return ErrNotExpecting
	}
	s.mode = mode
	s.state = StateTyping
	return s.send(ctx, Reply{Text: s.pipeline.Messages().Prompt(mode), Markup: s.markup})
}

// Submit runs the lookup for text in the chosen mode. The turn ends
// whatever the outcome. The session is not locked during the lookup call, so
// a Reset can abandon it; the abandoned turn's reply is never sent.
func (s *Session) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.state != StateTyping {
		s.mu.Unlock()
		return ErrNotExpecting
	}
	mode := s.mode
	s.clear()

	if _, err := s.pipeline.Classify(mode, text); err != nil {
		defer s.mu.Unlock()
		return s.deliver(ctx, s.pipeline.Messages().InvalidQuery(mode))
	}

	if err := s.send(ctx, Reply{Text: pipeline.SearchingText}); err != nil {
		s.logger.Warn("progress message not delivered", map[string]interface{}{"error": err.Error()})
	}

	s.turn++
	turn := s.turn
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel
	s.mu.Unlock()

	out, err := s.pipeline.Run(turnCtx, mode, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turn != turn {
		s.logger.Info("abandoned turn discarded", map[string]interface{}{"mode": string(mode)})
		return nil
	}
	s.cancel = nil
	if err != nil {
		s.logger.Info("turn ended with error", map[string]interface{}{"error": err.Error()})
	}
	return s.deliver(ctx, out)
}

// deliver sends a final reply. If that fails, a fixed plain-text notice is
// sent instead of the formatted output.
func (s *Session) deliver(ctx context.Context, text string) error {
	err := s.send(ctx, Reply{Text: text, Markup: s.markup, Buttons: newSearchButtons})
	if err == nil {
		return nil
	}

	s.logger.Error("reply not delivered", map[string]interface{}{"error": err.Error()})
	if fbErr := s.send(ctx, Reply{Text: pipeline.FailureText, Buttons: newSearchButtons}); fbErr != nil {
		s.logger.Error("failure notice not delivered", map[string]interface{}{"error": fbErr.Error()})
	}
	return commonerrors.NewReplySendFailedError(err)
}

func (s *Session) presentMenu(ctx context.Context) error {
	s.state = StateChoosing
	return s.send(ctx, Reply{Text: s.pipeline.Messages().ChooseMode(), Markup: s.markup, Buttons: menuButtons})
}

func (s *Session) send(ctx context.Context, reply Reply) error {
	return s.sender.Send(ctx, reply)
}

func (s *Session) abandon() {
	s.turn++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) clear() {
	s.state = StateIdle
	s.mode = ""
}
