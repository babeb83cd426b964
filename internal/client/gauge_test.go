package client_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/client"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls atomic.Int32
	txns  []domain.Transaction
	err   error
}

func (f *countingFetcher) FetchAll(context.Context) ([]domain.Transaction, error) {
	f.calls.Add(1)
	return f.txns, f.err
}

func TestGauge_Defaults(t *testing.T) {
	g := client.NewGauge(&countingFetcher{})
	r := g.Reading()

	assert.True(t, decimal.NewFromInt(client.DefaultSpendingLimit).Equal(r.Limit))
	assert.True(t, r.Spent.IsZero())
	assert.Equal(t, domain.SeverityGreen, r.Severity)
	assert.False(t, g.Running())
}

func TestGauge_PollsAndComputesReading(t *testing.T) {
	f := &countingFetcher{txns: []domain.Transaction{
		txn("a", "", "", "-100", ""),
		txn("b", "", "", "-200", ""),
		txn("c", "", "", "500", ""),
	}}
	updates := make(chan client.Reading, 16)
	g := client.NewGauge(f,
		client.WithPollInterval(5*time.Millisecond),
		client.WithOnUpdate(func(r client.Reading) {
			select {
			case updates <- r:
			default:
			}
		}),
	)

	g.Start(context.Background())
	defer g.Stop()

	select {
	case r := <-updates:
		assert.True(t, decimal.NewFromInt(300).Equal(r.Spent))
		assert.InDelta(t, 25, r.Percent, 0.001)
		assert.Equal(t, domain.SeverityGreen, r.Severity)
		assert.NoError(t, r.Err)
	case <-time.After(time.Second):
		t.Fatal("no reading received")
	}

	assert.Eventually(t, func() bool { return f.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestGauge_StopLeavesNoPoller(t *testing.T) {
	f := &countingFetcher{}
	g := client.NewGauge(f, client.WithPollInterval(time.Millisecond))

	g.Start(context.Background())
	g.Start(context.Background()) // second start is a no-op
	require.Eventually(t, func() bool { return f.calls.Load() > 0 }, time.Second, time.Millisecond)

	g.Stop()
	assert.False(t, g.Running())
	after := f.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, f.calls.Load())

	g.Stop() // stopping twice is safe
}

func TestGauge_SetLimit(t *testing.T) {
	f := &countingFetcher{txns: []domain.Transaction{txn("a", "", "", "-1100", "")}}
	g := client.NewGauge(f, client.WithPollInterval(time.Hour))
	g.Start(context.Background())
	require.Eventually(t, func() bool { return !g.Reading().UpdatedAt.IsZero() }, time.Second, time.Millisecond)
	g.Stop()

	r := g.Reading()
	assert.InDelta(t, 91.6667, r.Percent, 0.001)
	assert.Equal(t, domain.SeverityRed, r.Severity)

	g.SetLimit(decimal.NewFromInt(-50))
	r = g.Reading()
	assert.True(t, r.Limit.IsZero(), "negative limit clamps to zero")
	assert.Equal(t, float64(100), r.Percent)

	g.SetLimit(decimal.NewFromInt(1400))
	assert.Equal(t, domain.SeverityOrange, g.Reading().Severity)
}

func TestGauge_PollErrorKeepsLastSpent(t *testing.T) {
	f := &countingFetcher{txns: []domain.Transaction{txn("a", "", "", "-300", "")}}
	g := client.NewGauge(f, client.WithPollInterval(2*time.Millisecond))
	g.Start(context.Background())
	require.Eventually(t, func() bool { return g.Reading().Spent.Equal(decimal.NewFromInt(300)) }, time.Second, time.Millisecond)
	g.Stop()

	f.err = errors.New("backend down")
	f.txns = nil
	g.Start(context.Background())
	require.Eventually(t, func() bool { return g.Reading().Err != nil }, time.Second, time.Millisecond)
	g.Stop()

	assert.True(t, g.Reading().Spent.Equal(decimal.NewFromInt(300)))
}

func TestGauge_StopsWithContext(t *testing.T) {
	f := &countingFetcher{}
	g := client.NewGauge(f, client.WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	g.Start(ctx)
	require.Eventually(t, func() bool { return f.calls.Load() > 0 }, time.Second, time.Millisecond)
	cancel()
	g.Stop()

	after := f.calls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, f.calls.Load())
}
