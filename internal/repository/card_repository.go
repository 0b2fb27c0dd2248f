package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/berrymaze/game-backend/internal/model"
)

// CardRepository handles card-catalog data access.
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

// RandomCard draws uniformly at random from the full catalog.
func (r *CardRepository) RandomCard(ctx context.Context) (*model.Card, error) {
	var c model.Card
	err := r.pool.QueryRow(ctx,
		`SELECT card_id, card_name, card_category, card_description, card_image
		 FROM cards
		 ORDER BY RANDOM()
		 LIMIT 1`,
	).Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CardByID fetches a single card.
func (r *CardRepository) CardByID(ctx context.Context, id int) (*model.Card, error) {
	var c model.Card
	err := r.pool.QueryRow(ctx,
		`SELECT card_id, card_name, card_category, card_description, card_image
		 FROM cards
		 WHERE card_id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
