package domain

// Envelope is the canonical {success, message, data} response wrapper.
// Success is a pointer so an absent flag can be told apart from false.
type Envelope[T any] struct {
	Success *bool  `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

func (e *Envelope[T]) OK() bool {
	return e.Success != nil && *e.Success
}

// Tokens is the payload of a successful login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	Tokens Tokens `json:"tokens"`
}
