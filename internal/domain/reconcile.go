package domain

import (
	"fmt"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/model"
)

// methodOrder fixes the row order of the reconciliation report.
var methodOrder = []entity.PaymentMethodType{
	entity.PaymentMethodCash,
	entity.PaymentMethodRevolut,
	entity.PaymentMethodWeb3,
	entity.PaymentMethodUnknown,
}

// Reconcile aggregates the payment records of a room per method. All sums
// run in integer base units so the per-method totals add up to the grand
// total exactly; floats only appear in the rendered percentages.
func Reconcile(entries []entity.PlayerEntry) model.ReconciliationResponse {
	type totals struct {
		entry  uint64
		extras uint64
	}

	perMethod := map[entity.PaymentMethodType]*totals{}
	unpaid := []string{}

	var grandTotal uint64
	for _, e := range entries {
		if !e.EntryPaid {
			unpaid = append(unpaid, e.PlayerID)
		}

		method := e.Method
		if method == "" {
			method = entity.PaymentMethodUnknown
		}

		t, ok := perMethod[method]
		if !ok {
			t = &totals{}
			perMethod[method] = t
		}

		if e.EntryPaid {
			t.entry += e.EntryAmount
		}
		t.extras += e.ExtrasAmount

		if e.EntryPaid {
			grandTotal += e.EntryAmount
		}
		grandTotal += e.ExtrasAmount
	}

	methods := []model.MethodTotals{}
	for _, method := range methodOrder {
		t, ok := perMethod[method]
		if !ok {
			continue
		}

		total := t.entry + t.extras

		row := model.MethodTotals{
			Method:         string(method),
			Entry:          float64(t.entry),
			Extras:         float64(t.extras),
			Total:          float64(total),
			PercentDisplay: "—",
		}

		if grandTotal > 0 {
			row.PercentOfTotal = float64(total) / float64(grandTotal) * 100
			row.PercentDisplay = fmt.Sprintf("%.1f%%", row.PercentOfTotal)
		}

		methods = append(methods, row)
	}

	return model.ReconciliationResponse{
		Methods:       methods,
		GrandTotal:    float64(grandTotal),
		UnpaidPlayers: unpaid,
	}
}
