package output

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteOutputWritesBothTopics(t *testing.T) {
	dir := t.TempDir()
	out, err := NewSQLiteOutput(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(out.Path()))

	for hour := 0; hour < 3; hour++ {
		msg, err := json.Marshal(models.LedgerSnapshotEvent{
			RestaurantID: "r1",
			Ingredient:   "lemon",
			Hour:         int64(hour),
			Stock:        float64(10 - hour),
		})
		require.NoError(t, err)
		require.NoError(t, out.WriteMessage(models.TopicLedgerSnapshots, msg))
	}
	trade, err := json.Marshal(models.TradeEvent{BuyerID: "r1", SellerID: "r2", Ingredient: "lemon", Pounds: 4})
	require.NoError(t, err)
	require.NoError(t, out.WriteMessage(models.TopicTrades, trade))
	require.NoError(t, out.Close())

	db, err := sql.Open("sqlite3", out.Path())
	require.NoError(t, err)
	defer db.Close()

	var snapshots int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ledger_snapshots").Scan(&snapshots))
	assert.Equal(t, 3, snapshots)

	var pounds float64
	require.NoError(t, db.QueryRow("SELECT pounds FROM trades WHERE buyer_id = 'r1'").Scan(&pounds))
	assert.Equal(t, 4.0, pounds)
}

func TestSQLiteOutputRejectsUnknownTopic(t *testing.T) {
	out, err := NewSQLiteOutput(t.TempDir(), 0)
	require.NoError(t, err)
	defer out.Close()

	assert.Error(t, out.WriteMessage("orders", []byte(`{}`)))
	assert.Error(t, out.WriteMessage(models.TopicTrades, []byte(`nope`)))
}
