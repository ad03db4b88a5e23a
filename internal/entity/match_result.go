package entity

import "time"

// MatchResult - archive row written once a session reaches a terminal phase.
type MatchResult struct {
	SessionID   string    `json:"session_id"`
	Winner      int       `json:"winner"`
	Player1ID   string    `json:"player1_id"`
	Player1Name string    `json:"player1_name"`
	Player2ID   string    `json:"player2_id"`
	Player2Name string    `json:"player2_name"`
	TotalTurns  int       `json:"total_turns"`
	FinishedAt  time.Time `json:"finished_at"`
}
