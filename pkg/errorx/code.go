package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008

	// Fee configuration codes
	FeeOutOfRange            Code = 200001
	CharityBelowMinimum      Code = 200002
	InvalidPrizeDistribution Code = 200003

	// Room codes
	RoomNotFound  Code = 300001
	RoomFull      Code = 300002
	RoomClosed    Code = 300003
	RoomExpired   Code = 300004
	RoomNotActive Code = 300005

	// Settlement codes
	WalletNotConnected Code = 400001
	InvalidAddress     Code = 400002
	ChainRejected      Code = 400003
	UserRejected       Code = 400004
	EmergencyPause     Code = 400005
	TokenNotApproved   Code = 400006
)
