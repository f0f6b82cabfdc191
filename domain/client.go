package domain

import "time"

// Client is a registered credential pair that can be exchanged for an access token.
// SecretHash holds a bcrypt digest; the plain secret is never stored.
type Client struct {
	ID           string    `json:"client_id"`
	Name         string    `json:"name"`
	SecretHash   string    `json:"-"`
	RegisteredBy string    `json:"registered_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Token is the result of a successful credential exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
