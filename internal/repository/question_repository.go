package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/berrymaze/game-backend/internal/model"
)

// QuestionRepository handles question-bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ThreeQuestions samples exactly three random questions for the theme,
// constrained to the difficulty set derived from the chosen label.
func (r *QuestionRepository) ThreeQuestions(ctx context.Context, theme, difficultyChoice string) ([]model.Question, error) {
	allowed := model.AllowedDifficulties(difficultyChoice)

	rows, err := r.pool.Query(ctx,
		`SELECT question_id, question_description, question_image, question_options,
		        question_difficulty, question_category, question_answer
		 FROM questions
		 WHERE question_category = $1 AND question_difficulty = ANY($2)
		 ORDER BY RANDOM()
		 LIMIT $3`,
		theme, allowed, model.QuizQuestionCount,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Description, &q.Image, &q.Options, &q.Difficulty, &q.Category, &q.Answer); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
