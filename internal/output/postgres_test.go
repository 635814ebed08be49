package output

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySnapshots struct {
	batches [][]*models.LedgerSnapshotEvent
	rows    int
	resets  int
	err     error
}

func (m *memorySnapshots) BulkCreate(_ context.Context, s []*models.LedgerSnapshotEvent) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, s)
	m.rows += len(s)
	return nil
}

func (m *memorySnapshots) Count(context.Context) (int, error) { return m.rows, nil }

func (m *memorySnapshots) DeleteAll(context.Context) error {
	m.rows = 0
	m.resets++
	return nil
}

type memoryTrades struct {
	batches  [][]*models.TradeEvent
	rows     int
	resets   int
	countErr error
}

func (m *memoryTrades) BulkCreate(_ context.Context, t []*models.TradeEvent) error {
	m.batches = append(m.batches, t)
	m.rows += len(t)
	return nil
}

func (m *memoryTrades) Count(context.Context) (int, error) { return m.rows, m.countErr }

func (m *memoryTrades) DeleteAll(context.Context) error {
	m.rows = 0
	m.resets++
	return nil
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestRepositoryOutputBatches(t *testing.T) {
	snapshots := &memorySnapshots{}
	trades := &memoryTrades{}
	out := NewRepositoryOutput(snapshots, trades, 2)

	for hour := int64(0); hour < 3; hour++ {
		msg := mustJSON(t, models.LedgerSnapshotEvent{Ingredient: "lemon", Hour: hour, Profit: 1.5})
		require.NoError(t, out.WriteMessage(models.TopicLedgerSnapshots, msg))
	}
	require.NoError(t, out.WriteMessage(models.TopicTrades, mustJSON(t, models.TradeEvent{Ingredient: "lemon", Pounds: 4})))

	require.Len(t, snapshots.batches, 1)
	assert.Len(t, snapshots.batches[0], 2)
	assert.Empty(t, trades.batches)

	require.NoError(t, out.Close())
	require.Len(t, snapshots.batches, 2)
	assert.Equal(t, int64(2), snapshots.batches[1][0].Hour)
	require.Len(t, trades.batches, 1)
	assert.Equal(t, 4.0, trades.batches[0][0].Pounds)
}

func TestRepositoryOutputRejectsUnknownTopic(t *testing.T) {
	out := NewRepositoryOutput(&memorySnapshots{}, &memoryTrades{}, 10)
	assert.Error(t, out.WriteMessage("orders", []byte(`{}`)))
	assert.Error(t, out.WriteMessage(models.TopicTrades, []byte(`not json`)))
}

func TestRepositoryOutputSurfacesInsertErrors(t *testing.T) {
	boom := errors.New("boom")
	out := NewRepositoryOutput(&memorySnapshots{err: boom}, &memoryTrades{}, 1)

	err := out.WriteMessage(models.TopicLedgerSnapshots, mustJSON(t, models.LedgerSnapshotEvent{}))
	require.ErrorIs(t, err, boom)
}

func TestRepositoryOutputResetAndTotals(t *testing.T) {
	ctx := context.Background()
	snapshots := &memorySnapshots{rows: 7}
	trades := &memoryTrades{rows: 3}
	out := NewRepositoryOutput(snapshots, trades, 10)

	require.NoError(t, out.Reset(ctx))
	assert.Equal(t, 1, snapshots.resets)
	assert.Equal(t, 1, trades.resets)

	require.NoError(t, out.WriteMessage(models.TopicLedgerSnapshots, mustJSON(t, models.LedgerSnapshotEvent{Hour: 0})))
	require.NoError(t, out.WriteMessage(models.TopicLedgerSnapshots, mustJSON(t, models.LedgerSnapshotEvent{Hour: 1})))
	require.NoError(t, out.WriteMessage(models.TopicTrades, mustJSON(t, models.TradeEvent{Pounds: 1})))
	require.NoError(t, out.Close())

	nSnapshots, nTrades, err := out.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, nSnapshots)
	assert.Equal(t, 1, nTrades)
}

func TestRepositoryOutputTotalsSurfacesCountErrors(t *testing.T) {
	boom := errors.New("boom")
	out := NewRepositoryOutput(&memorySnapshots{}, &memoryTrades{countErr: boom}, 10)

	_, _, err := out.Totals(context.Background())
	require.ErrorIs(t, err, boom)
	require.NoError(t, out.Close())
}
