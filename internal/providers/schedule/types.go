package schedule

type scheduleResponse struct {
	Dates []dateResponse `json:"dates"`
}

type dateResponse struct {
	Date  string         `json:"date"`
	Games []gameResponse `json:"games"`
}

type gameResponse struct {
	GamePk           int                `json:"gamePk"`
	GameDate         string             `json:"gameDate"`
	Teams            *gameTeamsResponse `json:"teams"`
	ProbablePitchers *probablesResponse `json:"probablePitchers"`
}

type gameTeamsResponse struct {
	Home sideResponse `json:"home"`
	Away sideResponse `json:"away"`
}

type sideResponse struct {
	Team            teamResponse    `json:"team"`
	ProbablePitcher *personResponse `json:"probablePitcher"`
}

type teamResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type probablesResponse struct {
	Home *personResponse `json:"home"`
	Away *personResponse `json:"away"`
}

type personResponse struct {
	FullName      string `json:"fullName"`
	LastFirstName string `json:"lastFirstName"`
	FirstLastName string `json:"firstLastName"`
}
