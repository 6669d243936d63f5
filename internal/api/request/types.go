package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
}

// UpdateScoreRequest is the request body for PUT /players/players/{id}/score
type UpdateScoreRequest struct {
	NewScore int `json:"newScore"`
}

// LegacyUpdateScoreRequest is the request body for POST /players/updateScore,
// which carries the player id in the body instead of the path
type LegacyUpdateScoreRequest struct {
	UserID   string `json:"userId"`
	NewScore int    `json:"newScore"`
}

// GetPlayerDataRequest is the request body for fetching a player's data
type GetPlayerDataRequest struct {
	UserID string `json:"userId"`
}
