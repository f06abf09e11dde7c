package domain

// Player is a persistent participant identity. ConnectionID is empty when the
// player has no live websocket bound to them.
type Player struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Point        int    `json:"point"`
	IsLoggedIn   bool   `json:"isLoggedIn"`
	ConnectionID string `json:"connectionId"`
}

// PlayerCredentials is the subset of a player row needed to authenticate.
type PlayerCredentials struct {
	ID           int64
	Name         string
	PasswordHash string
	IsLoggedIn   bool
}

// AdminCredentials is the subset of an admin row needed to authenticate.
type AdminCredentials struct {
	ID           int64
	Name         string
	PasswordHash string
}

type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	QuestionIndex int    `json:"questionIndex"`
}

// Question carries its category's id and name alongside the question row so a
// single lookup can feed both the player broadcast and the admin view. Answer
// must never be serialized towards a player connection.
type Question struct {
	ID           int64  `json:"id"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Text         string `json:"question"`
	Answer       string `json:"answer"`
}
