package dto

type PlaceTipRequest struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"` // fallback de exibição no leaderboard
	RaceID    string `json:"raceId"`
	HorseName string `json:"horseName"`
}
