package domain

import "time"

// MatchRecord - строка истории завершенного матча. Пишется один раз
// при конце матча; игровое состояние комнат не персистится
type MatchRecord struct {
	ID          int64     `db:"id" json:"id"`
	RoomName    string    `db:"room_name" json:"room_name"`
	WinningTeam string    `db:"winning_team" json:"winning_team"`
	RedScore    int       `db:"red_score" json:"red_score"`
	BlueScore   int       `db:"blue_score" json:"blue_score"`
	HandsPlayed int       `db:"hands_played" json:"hands_played"`
	Winners     []string  `db:"winners" json:"winners"` // имена игроков победившей команды
	FinishedAt  time.Time `db:"finished_at" json:"finished_at"`
}

// LeaderboardEntry - агрегат побед по имени игрока
type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
