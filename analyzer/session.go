// ABOUTME: Wires the record store, analyzer channel, reconciler and dispatcher for the selected record
// ABOUTME: Inbound messages are handled one at a time and may carry a seq used to drop stale snapshots
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/observability"
	"github.com/harperreed/acctnotes/store"
)

// Outcome describes what happened to an inbound message.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeStale     Outcome = "stale"
	OutcomeMalformed Outcome = "malformed"
	OutcomeUnknown   Outcome = "unknown"
	OutcomeNoRecord  Outcome = "no_record"
)

// ErrNoSelection is returned when an operation needs a selected record.
var ErrNoSelection = errors.New("no customer selected")

// LogEntry is one inbound message as recorded in the message log.
type LogEntry struct {
	CustomerID models.RecordID
	Type       string
	Seq        *uint64
	Outcome    Outcome
	ReceivedAt time.Time
}

// MessageLog records inbound analyzer traffic.
type MessageLog interface {
	LogAnalyzerMessage(ctx context.Context, entry LogEntry) error
}

// Session owns the analyzer lifecycle for whichever record is selected.
type Session struct {
	store   *store.Store
	clock   clock.Clock
	timing  Timing
	logger  *zap.Logger
	metrics *observability.Metrics
	msgLog  MessageLog

	// inboundMu serializes inbound handling; mu guards the fields below.
	inboundMu sync.Mutex
	mu        sync.Mutex

	selected    models.RecordID
	ch          Channel
	dispatcher  *Dispatcher
	lastSeq     map[string]uint64
	unsubscribe func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

func WithTiming(t Timing) SessionOption {
	return func(s *Session) { s.timing = t }
}

func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

func WithMetrics(m *observability.Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

func WithMessageLog(l MessageLog) SessionOption {
	return func(s *Session) { s.msgLog = l }
}

// NewSession creates a session with nothing selected and subscribes it to st.
func NewSession(st *store.Store, opts ...SessionOption) *Session {
	s := &Session{
		store:   st,
		clock:   clock.New(),
		timing:  DefaultTiming(),
		logger:  zap.NewNop(),
		lastSeq: map[string]uint64{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = st.Subscribe(s.onChange)
	return s
}

// Select makes id the current record. Switching records closes the analyzer
// and cancels its pending timers.
func (s *Session) Select(id models.RecordID) error {
	if _, err := s.store.Get(id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.selected == id {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.CloseAnalyzer()

	s.mu.Lock()
	s.selected = id
	s.lastSeq = map[string]uint64{}
	s.mu.Unlock()
	return nil
}

// Deselect clears the selection and closes the analyzer.
func (s *Session) Deselect() {
	s.CloseAnalyzer()
	s.mu.Lock()
	s.selected = ""
	s.lastSeq = map[string]uint64{}
	s.mu.Unlock()
}

// Selected returns the selected record id, or "" when none.
func (s *Session) Selected() models.RecordID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// OpenAnalyzer attaches ch to the selected record and starts the open-time sync.
func (s *Session) OpenAnalyzer(ch Channel) error {
	s.detach(ch)

	s.mu.Lock()
	id := s.selected
	s.mu.Unlock()
	if id == "" {
		return ErrNoSelection
	}

	rec, err := s.store.Get(id)
	if err != nil {
		return fmt.Errorf("failed to open analyzer: %w", err)
	}

	d := NewDispatcher(ch, s.clock, s.timing, s.logger, s.metrics)

	s.mu.Lock()
	s.ch = ch
	s.dispatcher = d
	s.lastSeq = map[string]uint64{}
	s.mu.Unlock()

	ch.OnReceive(func(data []byte) {
		_, _ = s.HandleInboundFor(context.Background(), id, data)
	})
	d.Open(rec)

	s.logger.Info("analyzer opened", zap.String("customer_id", id.String()))
	return nil
}

// CloseAnalyzer cancels pending dispatches and closes the attached channel.
func (s *Session) CloseAnalyzer() {
	s.detach(nil)
}

// detach drops the current dispatcher and channel. The channel is closed
// unless it is keep, which is about to be reattached.
func (s *Session) detach(keep Channel) {
	s.mu.Lock()
	d, ch := s.dispatcher, s.ch
	s.dispatcher, s.ch = nil, nil
	s.mu.Unlock()

	if d != nil {
		d.Close()
	}
	if ch == nil {
		return
	}
	ch.OnReceive(nil)
	if ch != keep {
		if err := ch.Close(); err != nil {
			s.logger.Debug("failed to close analyzer channel", zap.Error(err))
		}
	}
	s.logger.Info("analyzer closed")
}

// AnalyzerOpen reports whether a channel is attached.
func (s *Session) AnalyzerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher != nil
}

// Close releases the store subscription and closes the analyzer.
func (s *Session) Close() {
	s.CloseAnalyzer()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// HandleInbound decodes one analyzer message and folds it into the selected
// record. Malformed and stale messages change nothing.
func (s *Session) HandleInbound(ctx context.Context, data []byte) (Outcome, error) {
	s.inboundMu.Lock()
	defer s.inboundMu.Unlock()

	s.mu.Lock()
	id := s.selected
	s.mu.Unlock()
	return s.handleInbound(ctx, id, data)
}

// HandleInboundFor folds one analyzer message into the record id regardless
// of the selection. Seq counters only apply when id is the selected record.
func (s *Session) HandleInboundFor(ctx context.Context, id models.RecordID, data []byte) (Outcome, error) {
	s.inboundMu.Lock()
	defer s.inboundMu.Unlock()
	return s.handleInbound(ctx, id, data)
}

// handleInbound runs with inboundMu held.
func (s *Session) handleInbound(ctx context.Context, id models.RecordID, data []byte) (Outcome, error) {
	msg, err := DecodeInbound(data)
	if err != nil {
		outcome := OutcomeMalformed
		if errors.Is(err, ErrUnknownMessage) {
			outcome = OutcomeUnknown
		}
		s.finish(ctx, "", msg, outcome)
		s.logger.Warn("ignoring analyzer message", zap.Error(err))
		return outcome, err
	}
	if msg.Skipped > 0 {
		s.metrics.IncrSkippedEntries(msg.Type, msg.Skipped)
		s.logger.Warn("skipped invalid analyzer entries", zap.String("type", msg.Type), zap.Int("count", msg.Skipped))
	}

	if id == "" {
		s.finish(ctx, id, msg, OutcomeNoRecord)
		return OutcomeNoRecord, ErrNoSelection
	}

	s.mu.Lock()
	stale := false
	if msg.Seq != nil && s.selected == id {
		if last, ok := s.lastSeq[msg.Type]; ok && *msg.Seq <= last {
			stale = true
		}
	}
	s.mu.Unlock()

	if stale {
		s.finish(ctx, id, msg, OutcomeStale)
		s.logger.Debug("dropping stale analyzer message", zap.String("type", msg.Type), zap.Uint64("seq", *msg.Seq))
		return OutcomeStale, nil
	}

	now := s.clock.Now()
	_, err = s.store.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		switch msg.Type {
		case TypeThirdPartyUpdate:
			return ApplyThirdPartySync(rec, msg.Solutions, now), nil
		default:
			return ApplyEvaluationSync(rec, msg.Evaluations, now), nil
		}
	})
	if err != nil {
		s.finish(ctx, id, msg, OutcomeNoRecord)
		return OutcomeNoRecord, fmt.Errorf("failed to apply %s: %w", msg.Type, err)
	}

	if msg.Seq != nil {
		s.mu.Lock()
		if s.selected == id {
			s.lastSeq[msg.Type] = *msg.Seq
		}
		s.mu.Unlock()
	}

	s.finish(ctx, id, msg, OutcomeApplied)
	return OutcomeApplied, nil
}

func (s *Session) finish(ctx context.Context, id models.RecordID, msg Inbound, outcome Outcome) {
	msgType := msg.Type
	if msgType == "" {
		msgType = "invalid"
	}
	s.metrics.IncrInbound(msgType, string(outcome))

	if s.msgLog == nil {
		return
	}
	entry := LogEntry{CustomerID: id, Type: msgType, Seq: msg.Seq, Outcome: outcome, ReceivedAt: s.clock.Now().UTC()}
	if err := s.msgLog.LogAnalyzerMessage(ctx, entry); err != nil {
		s.logger.Warn("failed to log analyzer message", zap.Error(err))
	}
}

func (s *Session) onChange(c store.Change) {
	s.mu.Lock()
	selected, d := s.selected, s.dispatcher
	s.mu.Unlock()

	if selected == "" {
		return
	}

	switch c.Kind {
	case store.ChangeDeleted:
		if c.ID == selected {
			s.Deselect()
		}
	case store.ChangeReplaced:
		rec, err := s.store.Get(selected)
		if err != nil {
			s.Deselect()
			return
		}
		if d != nil {
			d.Notify(rec)
		}
	case store.ChangeUpdated:
		if c.ID != selected || d == nil || c.Before == nil || c.After == nil {
			return
		}
		if syncRelevantChange(*c.Before, *c.After) {
			d.Notify(*c.After)
		}
	}
}

// syncRelevantChange reports whether the fields the analyzer sees differ.
func syncRelevantChange(before, after models.CustomerRecord) bool {
	return !reflect.DeepEqual(before.Data.Modules, after.Data.Modules) ||
		!reflect.DeepEqual(before.Data.ThirdParty, after.Data.ThirdParty)
}
