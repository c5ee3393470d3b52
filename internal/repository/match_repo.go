package repository

import (
	"context"

	"truco_server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// EnsureSchema создает таблицу истории, если ее еще нет
func (r *MatchRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS matches (
			id           BIGSERIAL PRIMARY KEY,
			room_name    TEXT NOT NULL,
			winning_team TEXT NOT NULL,
			red_score    INT NOT NULL,
			blue_score   INT NOT NULL,
			hands_played INT NOT NULL,
			winners      TEXT[] NOT NULL DEFAULT '{}',
			finished_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// SaveMatch записывает завершенный матч
func (r *MatchRepository) SaveMatch(ctx context.Context, m *domain.MatchRecord) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO matches (room_name, winning_team, red_score, blue_score, hands_played, winners)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, finished_at
	`, m.RoomName, m.WinningTeam, m.RedScore, m.BlueScore, m.HandsPlayed, m.Winners).Scan(&m.ID, &m.FinishedAt)
}

// GetTopWinners возвращает игроков по числу выигранных матчей
func (r *MatchRepository) GetTopWinners(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, COUNT(*) AS wins
		FROM matches, unnest(winners) AS name
		GROUP BY name
		ORDER BY wins DESC, name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Wins); err != nil {
			return nil, err
		}
		top = append(top, e)
	}
	return top, rows.Err()
}

// GetRecent возвращает последние завершенные матчи
func (r *MatchRepository) GetRecent(ctx context.Context, limit int) ([]domain.MatchRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_name, winning_team, red_score, blue_score, hands_played, winners, finished_at
		FROM matches
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MatchRecord
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(
			&m.ID, &m.RoomName, &m.WinningTeam, &m.RedScore, &m.BlueScore, &m.HandsPlayed, &m.Winners, &m.FinishedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
