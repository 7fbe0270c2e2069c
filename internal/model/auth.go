package model

// AccessToken is the jwt payload carried by hosts on room-management calls.
type AccessToken struct {
	ID     string `json:"id"`
	Wallet string `json:"wallet"`
}
