package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/config"
	"github.com/berrymaze/game-backend/internal/model"
)

// QuizResultWorker consumes persist_quiz_results_queue and inserts quiz
// outcomes into PostgreSQL. The game itself never waits on this; losing
// the process mid-queue loses history, not game state.
type QuizResultWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
	done chan struct{}
}

// NewQuizResultWorker creates a new QuizResultWorker.
func NewQuizResultWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *QuizResultWorker {
	return &QuizResultWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "quiz_result_worker").Logger(),
		done: make(chan struct{}),
	}
}

// Done is closed once Start has drained the queue and returned.
func (w *QuizResultWorker) Done() <-chan struct{} {
	return w.done
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *QuizResultWorker) Start(ctx context.Context) {
	defer close(w.done)
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *QuizResultWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistQuizResultsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var rec model.QuizResultRecord
	if err := json.Unmarshal([]byte(result[1]), &rec); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistResult(ctx, &rec); err != nil {
		w.log.Error().Err(err).
			Str("game_id", rec.GameID).
			Str("player_id", rec.PlayerID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(context.Background(), config.WorkerKey.PersistQuizResultsQueue, result[1])
		if ctx.Err() == nil {
			time.Sleep(5 * time.Second)
		}
	}
}

func (w *QuizResultWorker) persistResult(ctx context.Context, rec *model.QuizResultRecord) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO quiz_results (game_id, player_id, difficulty, correct_answers, reward, is_active_player)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.GameID, rec.PlayerID, rec.Difficulty, rec.CorrectAnswers, rec.Reward, rec.IsActivePlayer,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *QuizResultWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistQuizResultsQueue).Result()
		if err != nil {
			break
		}

		var rec model.QuizResultRecord
		if err := json.Unmarshal([]byte(result), &rec); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistResult(ctx, &rec); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistQuizResultsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining results")
	}
}
