package dto

type PlaceTipResponse struct {
	TipID  string `json:"tipId"`
	Status string `json:"status"` // SAVED
}

// MyTip é a visão de um palpite com o desfecho já liquidado (tela MyTips).
type MyTip struct {
	TipID       string  `json:"tipId"`
	RaceID      string  `json:"raceId"`
	RaceName    string  `json:"raceName"`
	Date        string  `json:"date"`
	HorseName   string  `json:"horseName"`
	Outcome     string  `json:"outcome"` // PENDING | WIN | PLACED | LOST
	ProfitGBP   float64 `json:"profit_gbp"`
	WinnerHorse string  `json:"winnerHorse,omitempty"`
}
