package events

// ScoreUpdatePayload scoreUpdate{score}
type ScoreUpdatePayload struct {
	Score int `json:"score"`
}

// SpeedUpdatePayload speedUpdate{speed}
type SpeedUpdatePayload struct {
	Speed float64 `json:"speed"`
}

// RewardEarnedPayload rewardEarned{points,score}
type RewardEarnedPayload struct {
	Points int `json:"points"`
	Score  int `json:"score"`
}

// OverPayload over{finalScore,maxSpeed,pointsEarned}
type OverPayload struct {
	FinalScore   int     `json:"finalScore"`
	MaxSpeed     float64 `json:"maxSpeed"`
	PointsEarned int     `json:"pointsEarned"`
}
