package dto

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// ClientHost is filled from the connection, not the body.
	ClientHost string `json:"-"`
}
