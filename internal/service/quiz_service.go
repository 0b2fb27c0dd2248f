package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

// QuizService runs the three-question quiz sub-protocol: question
// fetch, answer scoring for active and passive players, and the final
// reward settlement.
type QuizService struct {
	store     GameStore
	questions QuestionSource
	results   ResultQueue
	rt        Broadcaster
	locks     *SessionLocks
	log       zerolog.Logger

	// questionDelay leaves the answer feedback on screen before the
	// next question goes out.
	questionDelay time.Duration

	// Indirection for tests.
	schedule  func(d time.Duration, fn func())
	randFloat func() float64
}

// NewQuizService creates a new QuizService.
func NewQuizService(store GameStore, questions QuestionSource, results ResultQueue, rt Broadcaster, locks *SessionLocks, questionDelay time.Duration, log zerolog.Logger) *QuizService {
	return &QuizService{
		store:         store,
		questions:     questions,
		results:       results,
		rt:            rt,
		locks:         locks,
		log:           log.With().Str("component", "quiz_service").Logger(),
		questionDelay: questionDelay,
		schedule:      func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		randFloat:     rand.Float64,
	}
}

// HandleCard acknowledges a drawn quiz card. Nothing runs until the
// active player picks a theme and difficulty via startQuiz.
func (s *QuizService) HandleCard(gameID, playerID string, card *model.Card) {
	s.log.Info().Str("game_id", gameID).Str("card", card.Name).Msg("Quiz card drawn, waiting for startQuiz")
}

// StartQuiz fetches the quiz questions for the chosen theme and
// difficulty, installs a fresh quiz record and sends the first
// question. The fetch runs before any state is written, so a bank
// failure leaves the session where it was.
func (s *QuizService) StartQuiz(ctx context.Context, gameID, playerID, chosenTheme, chosenDifficulty string) {
	defer s.locks.Lock(gameID)()

	questions, err := s.questions.ThreeQuestions(ctx, chosenTheme, chosenDifficulty)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Str("theme", chosenTheme).Msg("Question fetch failed")
		s.rt.SendToPlayer(playerID, realtime.EventGameError, realtime.Notice{Message: "Error starting quiz"})
		return
	}
	if len(questions) < model.QuizQuestionCount {
		s.log.Warn().Str("theme", chosenTheme).Str("difficulty", chosenDifficulty).Int("count", len(questions)).Msg("Question bank came up short")
	}

	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateQuizInProgress); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventTurnStateChanged, realtime.TurnStateChanged{
		TurnState: model.TurnStateQuizInProgress,
		PlayerID:  playerID,
	})

	qs := &model.QuizState{
		Questions:        questions,
		CurrentQuestion:  0,
		ChosenTheme:      chosenTheme,
		ChosenDifficulty: chosenDifficulty,
		NonActiveAnswers: make(map[string]*model.AnswerTally),
	}
	if err := s.store.SaveQuizState(ctx, gameID, qs); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist quiz state failed")
		return
	}

	s.rt.BroadcastToGame(gameID, realtime.EventQuizStarted, realtime.QuizStarted{
		ChosenTheme:      chosenTheme,
		ChosenDifficulty: chosenDifficulty,
	})
	s.sendQuestionLocked(gameID, qs)
}

// SendNextQuestion emits the current question to the room, or settles
// the quiz once the question list is exhausted.
func (s *QuizService) SendNextQuestion(ctx context.Context, gameID string) {
	defer s.locks.Lock(gameID)()

	qs, err := s.store.QuizState(ctx, gameID)
	if err != nil || qs == nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("No quiz state to advance")
		return
	}

	if qs.CurrentQuestion >= len(qs.Questions) {
		s.endQuizLocked(ctx, gameID, qs)
		return
	}

	qs.HasMovedOn = false
	if err := s.store.SaveQuizState(ctx, gameID, qs); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist quiz state failed")
		return
	}
	s.sendQuestionLocked(gameID, qs)
}

func (s *QuizService) sendQuestionLocked(gameID string, qs *model.QuizState) {
	q := qs.CurrentQuestionRecord()
	if q == nil {
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventQuizQuestion, realtime.QuizQuestion{
		QuestionIndex:       qs.CurrentQuestion,
		QuestionID:          q.ID,
		QuestionDescription: q.Description,
		QuestionImage:       q.Image,
		QuestionOptions:     q.OptionList(),
		QuestionDifficulty:  q.Difficulty,
		QuestionCategory:    q.Category,
	})
	s.log.Debug().Str("game_id", gameID).Int("question", qs.CurrentQuestion+1).Int("difficulty", q.Difficulty).Msg("Question sent")
}

// HandleAnswer scores one player's answer. The active player's answer
// advances the quiz; passive answers only update their private tally
// and echo back to the sender.
func (s *QuizService) HandleAnswer(ctx context.Context, gameID, playerID, answer string) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	qs, err := s.store.QuizState(ctx, gameID)
	if err != nil || qs == nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("No quiz state for answer")
		return
	}
	q := qs.CurrentQuestionRecord()
	if q == nil {
		// Late answer after the last question already resolved.
		return
	}

	questionIndex := qs.CurrentQuestion
	correct := answer == q.Answer && answer != model.TimedOutAnswer
	result := realtime.QuizAnswerResult{
		QuestionIndex: questionIndex,
		CorrectAnswer: q.Answer,
		GivenAnswer:   answer,
		IsCorrect:     correct,
		PlayerID:      playerID,
	}

	if playerID == state.ActivePlayerID {
		if qs.HasMovedOn {
			// Duplicate answer for a question that already advanced.
			return
		}
		if correct {
			qs.CorrectAnswers++
		}
		s.rt.BroadcastToGame(gameID, realtime.EventQuizAnswerResult, result)

		qs.CurrentQuestion++
		qs.HasMovedOn = true
		if err := s.store.SaveQuizState(ctx, gameID, qs); err != nil {
			s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist quiz state failed")
			return
		}
		s.schedule(s.questionDelay, func() {
			s.SendNextQuestion(context.Background(), gameID)
		})
	} else {
		tally := qs.NonActiveAnswers[playerID]
		if tally == nil {
			tally = &model.AnswerTally{}
			qs.NonActiveAnswers[playerID] = tally
		}
		tally.Total++
		if correct {
			tally.Correct++
		}
		if err := s.store.SaveQuizState(ctx, gameID, qs); err != nil {
			s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist quiz state failed")
			return
		}
		s.rt.SendToPlayer(playerID, realtime.EventQuizAnswerResult, result)
	}

	s.log.Debug().Str("game_id", gameID).Str("player_id", playerID).Bool("correct", correct).Msg("Answer handled")
}

// endQuizLocked settles rewards, updates berries and broadcasts the
// final quizEnd summary. Caller holds the session lock.
func (s *QuizService) endQuizLocked(ctx context.Context, gameID string, qs *model.QuizState) {
	s.log.Info().Str("game_id", gameID).Msg("Ending quiz")

	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateQuizResult); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
		return
	}

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}

	difficulty := qs.ChosenDifficulty
	activeCorrect := qs.CorrectAnswers
	activeReward := activeRewardFor(difficulty, activeCorrect)

	active := model.FindPlayer(state.Players, state.ActivePlayerID)
	var activeMessage string
	if active != nil {
		active.Berries += activeReward
		activeMessage = activeMessageFor(difficulty, activeCorrect)
	}

	nonActiveResults := make([]realtime.QuizPassiveResult, 0, len(qs.NonActiveAnswers))
	for pID, tally := range qs.NonActiveAnswers {
		reward := 0
		// Expert spectators with a perfect score roll for a bonus berry.
		if difficulty == model.DifficultyExpert && tally.Correct == model.QuizQuestionCount {
			if s.randFloat() < 0.5 {
				reward = 1
			}
		}

		message := fmt.Sprintf("Vous avez obtenu %d bonne(s) réponse(s).", tally.Correct)
		if reward > 0 {
			message += " Vous gagnez 1 Faveur Divine !"
		} else {
			message += " Aucune Faveur Divine n'est accordée."
		}

		if p := model.FindPlayer(state.Players, pID); p != nil {
			p.Berries += reward
		}

		nonActiveResults = append(nonActiveResults, realtime.QuizPassiveResult{
			PlayerID: pID,
			Correct:  tally.Correct,
			Total:    tally.Total,
			Reward:   reward,
			Message:  message,
		})

		s.enqueueResult(ctx, model.QuizResultRecord{
			GameID:         gameID,
			PlayerID:       pID,
			Difficulty:     difficulty,
			CorrectAnswers: tally.Correct,
			Reward:         reward,
			IsActivePlayer: false,
		})
	}

	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}

	s.enqueueResult(ctx, model.QuizResultRecord{
		GameID:         gameID,
		PlayerID:       state.ActivePlayerID,
		Difficulty:     difficulty,
		CorrectAnswers: activeCorrect,
		Reward:         activeReward,
		IsActivePlayer: true,
	})

	s.rt.BroadcastToGame(gameID, realtime.EventQuizEnd, realtime.QuizEnd{
		ActivePlayerID:   state.ActivePlayerID,
		ChosenDifficulty: difficulty,
		ActiveResult: realtime.QuizActiveResult{
			CorrectAnswers: activeCorrect,
			TotalQuestions: len(qs.Questions),
			Reward:         activeReward,
			Message:        activeMessage,
		},
		NonActiveResults: nonActiveResults,
	})
}

func (s *QuizService) enqueueResult(ctx context.Context, rec model.QuizResultRecord) {
	if err := s.results.EnqueueQuizResult(ctx, rec); err != nil {
		// Result history is best-effort; the game itself already settled.
		s.log.Error().Err(err).Str("game_id", rec.GameID).Str("player_id", rec.PlayerID).Msg("Enqueue quiz result failed")
	}
}

// activeRewardFor maps the active player's score to a berry delta.
func activeRewardFor(difficulty string, correct int) int {
	switch difficulty {
	case model.DifficultyBeginner:
		return correct - 1
	case model.DifficultyExpert:
		return correct
	}
	return 0
}

func activeMessageFor(difficulty string, correct int) string {
	if difficulty == model.DifficultyBeginner {
		switch correct {
		case 0:
			return "Malheureusement, vous avez échoué et perdez 1 Faveur Divine."
		case 1:
			return "Vous avez 1 bonne réponse, ce qui ne vous rapporte rien."
		case 2:
			return "Bon travail ! 2 bonnes réponses vous rapportent 1 Faveur Divine."
		case 3:
			return "Excellent ! Vous avez toutes les réponses correctes et obtenez 2 Faveurs Divines."
		}
		return ""
	}
	switch correct {
	case 0:
		return "Vous n'avez aucune bonne réponse, aucune Faveur Divine n'est accordée."
	case 1:
		return "Vous avez 1 bonne réponse et gagnez 1 Faveur Divine."
	case 2:
		return "Bien joué ! 2 bonnes réponses vous rapportent 2 Faveurs Divines."
	case 3:
		return "Parfait ! Vous avez toutes les réponses correctes et obtenez 3 Faveurs Divines."
	}
	return ""
}
