package model

type FeeStructure struct {
	PlatformBps  int `json:"platform_bps"`
	HostBps      int `json:"host_bps"`
	PrizePoolBps int `json:"prize_pool_bps"`
	CharityBps   int `json:"charity_bps"`
}

type CreateRoomRequest struct {
	// RoomID is host-chosen; a token is generated when empty.
	RoomID string `json:"room_id"`

	HostFeePct   float64 `json:"host_fee_pct"`
	PrizePoolPct float64 `json:"prize_pool_pct"`

	EntryFee   float64 `json:"entry_fee"`
	MaxPlayers int     `json:"max_players"`

	FirstPlacePct  int `json:"first_place_pct"`
	SecondPlacePct int `json:"second_place_pct"`
	ThirdPlacePct  int `json:"third_place_pct"`

	CharityWallet string `json:"charity_wallet"`
	CharityMemo   string `json:"charity_memo"`
	FeeTokenMint  string `json:"fee_token_mint"`

	// ExpirationSlots of 0 means the room never expires.
	ExpirationSlots uint64 `json:"expiration_slots"`

	TotalRounds       int              `json:"total_rounds"`
	QuestionsPerRound int              `json:"questions_per_round"`
	Questions         []QuestionUpload `json:"questions"`
}

type QuestionUpload struct {
	Round     int      `json:"round"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"time_limit"`
}

type CreateRoomResponse struct {
	RoomID          string       `json:"room_id"`
	ContractAddress string       `json:"contract_address"`
	TxHash          string       `json:"tx_hash"`
	ExplorerURL     string       `json:"explorer_url,omitempty"`
	FeeStructure    FeeStructure `json:"fee_structure"`
}

type JoinRoomRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`

	// Method is cash, revolut or web3. Web3 joins go through the chain;
	// the others are recorded by the host for manual reconciliation.
	Method string `json:"method"`

	// PlayerWallet is required for web3 joins.
	PlayerWallet string  `json:"player_wallet"`
	ExtrasAmount float64 `json:"extras_amount"`
}

type JoinRoomResponse struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"tx_hash,omitempty"`
	PlayerCount int    `json:"player_count"`
}

type StartRoomRequest struct {
	RoomID string `json:"room_id"`
}

type StartRoomResponse struct {
	Success bool `json:"success"`
}

type DeclareWinnersRequest struct {
	RoomID  string   `json:"room_id"`
	Winners []string `json:"winners"`
}

type DeclareWinnersResponse struct {
	Success bool `json:"success"`
}

type EndRoomRequest struct {
	RoomID string `json:"room_id"`

	// Winners is used when no winners were declared beforehand.
	Winners []string `json:"winners"`
}

type EndRoomResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"tx_hash,omitempty"`
}

type RecoverRoomRequest struct {
	RoomID string `json:"room_id"`
}

type RecoverRoomResponse struct {
	Success bool `json:"success"`
}

type GetRoomRequest struct {
	RoomID string `json:"room_id"`
}

type GetRoomResponse struct {
	Room Room `json:"room"`
}

type Room struct {
	RoomID          string       `json:"room_id"`
	HostID          string       `json:"host_id"`
	Status          string       `json:"status"`
	PlayerCount     int          `json:"player_count"`
	MaxPlayers      int          `json:"max_players"`
	EntryFee        float64      `json:"entry_fee"`
	FeeTokenMint    string       `json:"fee_token_mint"`
	FeeStructure    FeeStructure `json:"fee_structure"`
	Ended           bool         `json:"ended"`
	Winners         []string     `json:"winners"`
	ContractAddress string       `json:"contract_address,omitempty"`
	TotalCollected  uint64       `json:"total_collected"`
}

type FeePreviewRequest struct {
	TotalEntryFees  uint64 `json:"total_entry_fees"`
	TotalExtrasFees uint64 `json:"total_extras_fees"`
	HostFeeBps      int    `json:"host_fee_bps"`
	PrizePoolBps    int    `json:"prize_pool_bps"`
}

type FeePreviewResponse struct {
	Platform uint64 `json:"platform"`
	Host     uint64 `json:"host"`
	Prizes   uint64 `json:"prizes"`
	Charity  uint64 `json:"charity"`
}
