package model

type ExtraPayment struct {
	Key    string  `json:"key"`
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

type RecordPaymentRequest struct {
	RoomID    string         `json:"room_id"`
	PlayerID  string         `json:"player_id"`
	Method    string         `json:"method"`
	EntryPaid bool           `json:"entry_paid"`
	Extras    []ExtraPayment `json:"extras"`
}

type RecordPaymentResponse struct {
	Success bool `json:"success"`
}

type ReconciliationRequest struct {
	RoomID string `json:"room_id"`
}

type MethodTotals struct {
	Method string  `json:"method"`
	Entry  float64 `json:"entry"`
	Extras float64 `json:"extras"`
	Total  float64 `json:"total"`

	PercentOfTotal float64 `json:"percent_of_total"`

	// PercentDisplay is the rendered percentage, an em dash when no money
	// has been recorded at all.
	PercentDisplay string `json:"percent_display"`
}

type ReconciliationResponse struct {
	Methods       []MethodTotals `json:"methods"`
	GrandTotal    float64        `json:"grand_total"`
	UnpaidPlayers []string       `json:"unpaid_players"`
}
