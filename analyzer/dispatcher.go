// ABOUTME: Pushes record projections to the analyzer while it is open
// ABOUTME: Debounces change bursts and schedules the open-time CUSTOMER_DATA and confirmatory sync
package analyzer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/observability"
)

// Timing holds the dispatcher delays.
type Timing struct {
	Debounce       time.Duration
	InitialDelay   time.Duration
	BootstrapDelay time.Duration
}

// DefaultTiming matches how long the analyzer takes to become ready.
func DefaultTiming() Timing {
	return Timing{
		Debounce:       100 * time.Millisecond,
		InitialDelay:   500 * time.Millisecond,
		BootstrapDelay: 1500 * time.Millisecond,
	}
}

// Dispatcher sends outbound messages for one open analyzer.
type Dispatcher struct {
	ch      Channel
	clock   clock.Clock
	timing  Timing
	logger  *zap.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	open     bool
	recordID models.RecordID
	latest   models.CustomerRecord
	gen      uint64
	initial  *clock.Timer
	confirm  *clock.Timer
	debounce *Debouncer
}

// NewDispatcher creates a closed dispatcher bound to ch.
func NewDispatcher(ch Channel, clk clock.Clock, timing Timing, logger *zap.Logger, metrics *observability.Metrics) *Dispatcher {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		ch:       ch,
		clock:    clk,
		timing:   timing,
		logger:   logger,
		metrics:  metrics,
		debounce: NewDebouncer(clk, timing.Debounce),
	}
}

// Open starts syncing rec. CUSTOMER_DATA goes out after the initial delay and
// a full sync follows after the bootstrap delay.
func (d *Dispatcher) Open(rec models.CustomerRecord) {
	d.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.open = true
	d.recordID = rec.ID
	d.latest = rec.Clone()
	d.gen++
	gen := d.gen

	d.initial = d.clock.AfterFunc(d.timing.InitialDelay, func() {
		d.mu.Lock()
		if !d.open || gen != d.gen {
			d.mu.Unlock()
			return
		}
		rec := d.latest.Clone()
		d.confirm = d.clock.AfterFunc(d.timing.BootstrapDelay, func() {
			if rec, ok := d.current(gen); ok {
				d.sendSync(rec)
			}
		})
		d.mu.Unlock()

		proj := Project(rec)
		proj.Opportunities = ""
		d.send(TypeCustomerData, CustomerDataMessage{Type: TypeCustomerData, Projection: proj})
	})
}

// Notify schedules a debounced sync of rec. It is a no-op when the dispatcher
// is closed or rec is not the open record.
func (d *Dispatcher) Notify(rec models.CustomerRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open || rec.ID != d.recordID {
		return
	}
	d.latest = rec.Clone()
	gen := d.gen

	if d.debounce.Trigger(func() {
		if rec, ok := d.current(gen); ok {
			d.sendSync(rec)
		}
	}) {
		d.metrics.IncrDebounceCollapse()
	}
}

// Close cancels every pending timer and stops further dispatch.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.open = false
	d.gen++
	if d.initial != nil {
		d.initial.Stop()
		d.initial = nil
	}
	if d.confirm != nil {
		d.confirm.Stop()
		d.confirm = nil
	}
	d.debounce.Cancel()
}

// IsOpen reports whether the dispatcher is syncing a record.
func (d *Dispatcher) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// RecordID returns the id of the open record.
func (d *Dispatcher) RecordID() models.RecordID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recordID
}

func (d *Dispatcher) current(gen uint64) (models.CustomerRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open || gen != d.gen {
		return models.CustomerRecord{}, false
	}
	return d.latest.Clone(), true
}

func (d *Dispatcher) sendSync(rec models.CustomerRecord) {
	d.send(TypeOpportunitiesOut, OpportunitiesMessage{Type: TypeOpportunitiesOut, Opportunities: OpportunitySync(rec)})
	d.send(TypeThirdPartyOut, ThirdPartyMessage{Type: TypeThirdPartyOut, Solutions: ThirdPartySync(rec)})
}

func (d *Dispatcher) send(msgType string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		d.logger.Error("failed to encode analyzer message", zap.String("type", msgType), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.ch.Send(ctx, data); err != nil {
		d.metrics.IncrSendFailure(msgType)
		d.logger.Warn("failed to send analyzer message", zap.String("type", msgType), zap.Error(err))
		return
	}
	d.metrics.IncrOutbound(msgType)
	d.logger.Debug("sent analyzer message", zap.String("type", msgType))
}
