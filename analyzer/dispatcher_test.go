// ABOUTME: Tests for the debouncer and outbound dispatcher
// ABOUTME: Timers run on a mock clock so open-time, burst and cancellation behavior is deterministic
package analyzer

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/observability"
)

const settle = 50 * time.Millisecond

func sentTypes(t *testing.T, ch *MemoryChannel) []string {
	t.Helper()
	var out []string
	for _, data := range ch.Sent() {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &env))
		out = append(out, env.Type)
	}
	return out
}

func waitForSent(t *testing.T, ch *MemoryChannel, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(ch.Sent()) >= n }, time.Second, time.Millisecond)
}

func TestDebouncerRunsLatestOnce(t *testing.T) {
	clk := clock.NewMock()
	d := NewDebouncer(clk, 100*time.Millisecond)

	var calls, last int32
	trigger := func(v int32) bool {
		return d.Trigger(func() {
			atomic.AddInt32(&calls, 1)
			atomic.StoreInt32(&last, v)
		})
	}

	assert.False(t, trigger(1))
	clk.Add(60 * time.Millisecond)
	assert.True(t, trigger(2))
	clk.Add(60 * time.Millisecond)
	assert.True(t, trigger(3))
	assert.True(t, d.pending())

	clk.Add(100 * time.Millisecond)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&last))
	assert.False(t, d.pending())
}

func TestDebouncerCancel(t *testing.T) {
	clk := clock.NewMock()
	d := NewDebouncer(clk, 100*time.Millisecond)

	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	d.Cancel()
	clk.Add(time.Second)

	assert.Never(t, func() bool { return atomic.LoadInt32(&calls) > 0 }, settle, time.Millisecond)
}

func TestDispatcherOpenSequence(t *testing.T) {
	clk := clock.NewMock()
	ch := NewMemoryChannel()
	d := NewDispatcher(ch, clk, DefaultTiming(), nil, nil)

	rec := recordWith([]models.ProductEntry{
		{Name: "CRM", Status: models.StatusLicensed},
		{Name: "Payroll", Status: models.StatusOpportunity, ProcessArea: "HR + Payroll"},
	}, nil)
	d.Open(rec)
	assert.True(t, d.IsOpen())

	clk.Add(499 * time.Millisecond)
	assert.Never(t, func() bool { return len(ch.Sent()) > 0 }, settle, time.Millisecond)

	clk.Add(time.Millisecond)
	waitForSent(t, ch, 1)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(ch.Sent()[0], &first))
	assert.Equal(t, TypeCustomerData, first["type"])
	assert.Equal(t, "CRM", first["licensed"])
	assert.Equal(t, "", first["opportunities"], "opportunities stay blank until the confirmatory sync")

	clk.Add(1500 * time.Millisecond)
	waitForSent(t, ch, 3)
	assert.Equal(t, []string{TypeCustomerData, TypeOpportunitiesOut, TypeThirdPartyOut}, sentTypes(t, ch))

	var opps OpportunitiesMessage
	require.NoError(t, json.Unmarshal(ch.Sent()[1], &opps))
	assert.Equal(t, []Opportunity{{Name: "Payroll", ProcessArea: "HR + Payroll"}}, opps.Opportunities)
}

func TestDispatcherDebouncesBursts(t *testing.T) {
	clk := clock.NewMock()
	ch := NewMemoryChannel()
	metrics := observability.NewMetrics()
	d := NewDispatcher(ch, clk, DefaultTiming(), nil, metrics)

	rec := recordWith(nil, nil)
	d.Open(rec)

	for i, name := range []string{"CPQ", "Dunning", "SuiteBilling"} {
		rec.Data.Modules = append(rec.Data.Modules, models.ProductEntry{Name: name, Status: models.StatusOpportunity})
		d.Notify(rec)
		if i < 2 {
			clk.Add(50 * time.Millisecond)
		}
	}
	assert.Never(t, func() bool { return len(ch.Sent()) > 0 }, settle, time.Millisecond)

	clk.Add(100 * time.Millisecond)
	waitForSent(t, ch, 2)
	assert.Equal(t, []string{TypeOpportunitiesOut, TypeThirdPartyOut}, sentTypes(t, ch))

	var opps OpportunitiesMessage
	require.NoError(t, json.Unmarshal(ch.Sent()[0], &opps))
	assert.Len(t, opps.Opportunities, 3, "the dispatch carries the latest state")
	assert.Equal(t, 2.0, metrics.DebounceCollapsed())
	assert.Equal(t, 1.0, metrics.OutboundCount(TypeOpportunitiesOut))
}

func TestDispatcherClosedNeverSends(t *testing.T) {
	clk := clock.NewMock()
	ch := NewMemoryChannel()
	d := NewDispatcher(ch, clk, DefaultTiming(), nil, nil)

	rec := recordWith(nil, nil)
	d.Notify(rec)

	d.Open(rec)
	d.Notify(rec)
	d.Close()
	d.Notify(rec)
	assert.False(t, d.IsOpen())

	clk.Add(10 * time.Second)
	assert.Never(t, func() bool { return len(ch.Sent()) > 0 }, settle, time.Millisecond)
}

func TestDispatcherIgnoresOtherRecords(t *testing.T) {
	clk := clock.NewMock()
	ch := NewMemoryChannel()
	d := NewDispatcher(ch, clk, Timing{Debounce: 10 * time.Millisecond, InitialDelay: time.Hour, BootstrapDelay: time.Hour}, nil, nil)

	d.Open(recordWith(nil, nil))
	other := recordWith(nil, nil)
	other.ID = "cust-2"
	d.Notify(other)

	clk.Add(time.Second)
	assert.Never(t, func() bool { return len(ch.Sent()) > 0 }, settle, time.Millisecond)
	assert.Equal(t, models.RecordID("cust-1"), d.RecordID())
}

func TestDispatcherSendFailureIsNotFatal(t *testing.T) {
	clk := clock.NewMock()
	ch := NewMemoryChannel()
	ch.FailSends(errors.New("iframe gone"))
	d := NewDispatcher(ch, clk, DefaultTiming(), nil, nil)

	d.Open(recordWith(nil, nil))
	clk.Add(2 * time.Second)

	ch.FailSends(nil)
	d.Notify(recordWith(nil, nil))
	clk.Add(100 * time.Millisecond)
	waitForSent(t, ch, 2)
	assert.True(t, d.IsOpen())
}
