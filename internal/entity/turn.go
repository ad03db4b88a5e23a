package entity

const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Turn - one recorded shot. Keyed within a TurnLog by the targeted board index.
type Turn struct {
	ID       string   `json:"id"`
	FiredBy  string   `json:"firedBy"`
	Position Position `json:"position"`
	Result   string   `json:"result"`
	Ship     *Ship    `json:"ship,omitempty"`
}

// TurnLog - shots fired by one slot, keyed by targeted board index.
// Re-firing the same position overwrites the prior record.
type TurnLog map[int]Turn

func (that TurnLog) HitCount() int {
	hits := 0
	for _, turn := range that {
		if turn.Result == ResultHit {
			hits++
		}
	}

	return hits
}
