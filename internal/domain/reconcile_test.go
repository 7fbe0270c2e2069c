package domain

import (
	"testing"

	"github.com/fundraisely/backend/internal/entity"

	"github.com/stretchr/testify/require"
)

func paidEntry(playerID string, method entity.PaymentMethodType, entry, extras uint64) entity.PlayerEntry {
	return entity.PlayerEntry{
		PlayerID:     playerID,
		Method:       method,
		EntryPaid:    true,
		EntryAmount:  entry,
		ExtrasAmount: extras,
	}
}

func Test_Reconcile(t *testing.T) {
	const entryFee = 1_000_000

	entries := []entity.PlayerEntry{
		paidEntry("alice", entity.PaymentMethodCash, entryFee, 500_000),
		paidEntry("bob", entity.PaymentMethodCash, entryFee, 0),
		paidEntry("carol", entity.PaymentMethodRevolut, entryFee, 250_000),
		paidEntry("dave", entity.PaymentMethodWeb3, entryFee, 0),
		{PlayerID: "eve", Method: entity.PaymentMethodCash, EntryPaid: false},
	}

	resp := Reconcile(entries)

	// 4 paid entries plus all extras, exactly.
	require.Equal(t, float64(4*entryFee+750_000), resp.GrandTotal)
	require.Equal(t, []string{"eve"}, resp.UnpaidPlayers)

	require.Len(t, resp.Methods, 3)
	require.Equal(t, "cash", resp.Methods[0].Method)
	require.Equal(t, float64(2*entryFee), resp.Methods[0].Entry)
	require.Equal(t, float64(500_000), resp.Methods[0].Extras)
	require.Equal(t, "revolut", resp.Methods[1].Method)
	require.Equal(t, "web3", resp.Methods[2].Method)

	var sum float64
	var pct float64
	for _, m := range resp.Methods {
		require.Equal(t, m.Entry+m.Extras, m.Total)
		sum += m.Total
		pct += m.PercentOfTotal
		require.NotEqual(t, "—", m.PercentDisplay)
	}

	// No rounding loss across methods.
	require.Equal(t, resp.GrandTotal, sum)
	require.InDelta(t, 100.0, pct, 1e-9)
}

func Test_Reconcile_EmptyRoom(t *testing.T) {
	resp := Reconcile(nil)
	require.Zero(t, resp.GrandTotal)
	require.Empty(t, resp.Methods)
	require.Empty(t, resp.UnpaidPlayers)
}

func Test_Reconcile_NothingCollectedRendersDash(t *testing.T) {
	entries := []entity.PlayerEntry{
		{PlayerID: "alice", Method: entity.PaymentMethodCash, EntryPaid: false},
	}

	resp := Reconcile(entries)
	require.Zero(t, resp.GrandTotal)
	require.Len(t, resp.Methods, 1)
	require.Equal(t, "—", resp.Methods[0].PercentDisplay)
	require.Zero(t, resp.Methods[0].PercentOfTotal)
	require.Equal(t, []string{"alice"}, resp.UnpaidPlayers)
}

func Test_Reconcile_UnknownMethodIsBucketed(t *testing.T) {
	entries := []entity.PlayerEntry{
		paidEntry("alice", "", 1_000_000, 0),
	}

	resp := Reconcile(entries)
	require.Len(t, resp.Methods, 1)
	require.Equal(t, "unknown", resp.Methods[0].Method)
}
