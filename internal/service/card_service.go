package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

// Catalog card IDs with a modeled use-object effect. IDs match the
// seeded catalog (cmd/seed-catalog).
const (
	itemHourglass = 9  // Sablier d'Héra: extra turn
	itemOracle    = 10 // Oracle de Delphes: next player forced onto quiz cards
	itemPurse     = 11 // Bourse d'Hermès: +2 berries
	itemFateHand  = 12 // Main du Destin: next player forced onto challenge cards
)

var (
	forcedQuizCardIDs      = []int{1, 2, 3, 4}
	forcedChallengeCardIDs = []int{5, 6, 7, 8}
)

// The extra berries granted by the purse item.
const purseBerries = 2

// CardService runs the per-category card sub-protocols. Quiz cards are
// delegated to QuizService; challenge and object cards are handled
// here. Dispatch is called by the turn manager with the session lock
// already held; the client-driven operations take it themselves.
type CardService struct {
	store GameStore
	rt    Broadcaster
	locks *SessionLocks
	quiz  *QuizService
	log   zerolog.Logger
}

// NewCardService creates a new CardService.
func NewCardService(store GameStore, rt Broadcaster, locks *SessionLocks, quiz *QuizService, log zerolog.Logger) *CardService {
	return &CardService{
		store: store,
		rt:    rt,
		locks: locks,
		quiz:  quiz,
		log:   log.With().Str("component", "card_service").Logger(),
	}
}

// Dispatch persists the drawn card, announces it to the room and routes
// it by category. Every category then waits for its own client event
// (startQuiz, startBetting, pickUpObject) before anything else happens.
func (s *CardService) Dispatch(ctx context.Context, gameID, playerID string, card *model.Card) error {
	if err := s.store.SetCurrentCard(ctx, gameID, card); err != nil {
		return err
	}
	s.rt.BroadcastToGame(gameID, realtime.EventCardDrawn, realtime.CardDrawn{
		PlayerID: playerID,
		Card:     card,
	})

	switch card.Category {
	case model.CategoryQuiz:
		s.quiz.HandleCard(gameID, playerID, card)
	case model.CategoryChallenge:
		s.log.Info().Str("game_id", gameID).Str("card", card.Name).Msg("Challenge card drawn, waiting for startBetting")
	case model.CategoryObject:
		s.log.Info().Str("game_id", gameID).Str("card", card.Name).Msg("Object card drawn, waiting for pickUpObject")
	default:
		s.log.Warn().Str("game_id", gameID).Str("category", string(card.Category)).Msg("Unknown card category")
	}
	return nil
}

// ─── Object cards ───────────────────────────────────────────────────

// PickUpObject moves the current card into the player's inventory and
// returns the turn to the movement phase.
func (s *CardService) PickUpObject(ctx context.Context, gameID, playerID string) {
	defer s.locks.Lock(gameID)()

	card, err := s.store.CurrentCard(ctx, gameID)
	if err != nil || card == nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("No current card to pick up")
		return
	}
	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		return
	}

	item := card.AsItem()
	player.Inventory = append(player.Inventory, item)
	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventObjectPickedUp, realtime.ObjectPickedUp{
		PlayerID: playerID,
		ItemData: item,
	})
	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateMovement); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
	}
}

// DiscardObject removes one copy of an item from the player's
// inventory. Duplicate copies are discarded one at a time, matching
// UseObject.
func (s *CardService) DiscardObject(ctx context.Context, gameID, playerID string, itemID int) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		return
	}

	player.Inventory = removeOneItem(player.Inventory, itemID)

	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventObjectDiscarded, realtime.ObjectDiscarded{
		PlayerID: playerID,
		ItemID:   itemID,
	})
}

// UseObject consumes an inventory item and applies its effect. Unknown
// items are consumed without effect.
func (s *CardService) UseObject(ctx context.Context, gameID, playerID string, itemID int) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		return
	}

	var item *model.Item
	for i := range player.Inventory {
		if player.Inventory[i].ItemID == itemID {
			item = &player.Inventory[i]
			break
		}
	}
	if item == nil {
		s.log.Warn().Str("game_id", gameID).Str("player_id", playerID).Int("item_id", itemID).Msg("Item not in inventory")
		return
	}

	if err := s.applyEffect(ctx, gameID, state, player, item); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Str("item", item.Name).Msg("Apply item effect failed")
		return
	}
	message := "Player used " + item.Name

	player.Inventory = removeOneItem(player.Inventory, itemID)

	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventObjectUsed, realtime.ObjectUsed{
		PlayerID: playerID,
		ItemID:   itemID,
		Message:  message,
	})
}

func (s *CardService) applyEffect(ctx context.Context, gameID string, state *model.GameState, player *model.Player, item *model.Item) error {
	switch item.ItemID {
	case itemHourglass:
		return s.store.SetDoubleTurn(ctx, gameID, player.PlayerID)
	case itemOracle:
		return s.store.SetForcedDraw(ctx, gameID, nextPlayerID(state, player.PlayerID), forcedQuizCardIDs, 2)
	case itemFateHand:
		return s.store.SetForcedDraw(ctx, gameID, nextPlayerID(state, player.PlayerID), forcedChallengeCardIDs, 2)
	case itemPurse:
		player.Berries += purseBerries
		return nil
	}
	s.log.Warn().Int("item_id", item.ItemID).Msg("Item has no effect")
	return nil
}

// removeOneItem drops the first copy of itemID from an inventory.
func removeOneItem(inventory []model.Item, itemID int) []model.Item {
	kept := inventory[:0]
	removed := false
	for _, it := range inventory {
		if !removed && it.ItemID == itemID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

// nextPlayerID returns the player after the given one in turn order.
func nextPlayerID(state *model.GameState, playerID string) string {
	for i, p := range state.Players {
		if p.PlayerID == playerID {
			return state.Players[(i+1)%len(state.Players)].PlayerID
		}
	}
	return playerID
}

// ─── Challenge cards ────────────────────────────────────────────────

// StartBetting opens the betting phase for the current challenge card.
func (s *CardService) StartBetting(ctx context.Context, gameID, playerID string) {
	defer s.locks.Lock(gameID)()

	if err := s.store.SaveChallengeState(ctx, gameID, model.NewChallengeState()); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist challenge state failed")
		return
	}
	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateBetting); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventTurnStateChanged, realtime.TurnStateChanged{
		TurnState: model.TurnStateBetting,
		PlayerID:  playerID,
	})
	s.rt.BroadcastToGame(gameID, realtime.EventBettingStarted, realtime.BettingStarted{
		ActivePlayerID: playerID,
	})
}

// HandleBet records a player's stake and announces it.
func (s *CardService) HandleBet(ctx context.Context, gameID, playerID string, bet int) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		return
	}

	cs, err := s.store.ChallengeState(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load challenge state failed")
		return
	}
	if cs == nil {
		cs = model.NewChallengeState()
	}
	cs.Bets[playerID] = bet
	if err := s.store.SaveChallengeState(ctx, gameID, cs); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist challenge state failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventBetPlaced, realtime.BetPlaced{
		PlayerName: player.PlayerName,
		Bet:        bet,
	})
}

// HandleChallengeVote records a passive player's verdict on the active
// player's challenge. Once every passive player has voted the challenge
// resolves: a tie or better among the voters counts as success, and the
// active player's stake is paid out or forfeited accordingly.
func (s *CardService) HandleChallengeVote(ctx context.Context, gameID, playerID string, vote bool) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	cs, err := s.store.ChallengeState(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load challenge state failed")
		return
	}
	if cs == nil {
		cs = model.NewChallengeState()
	}
	if playerID == state.ActivePlayerID {
		// The challenged player has no say in the verdict.
		return
	}
	cs.Votes[playerID] = vote
	if err := s.store.SaveChallengeState(ctx, gameID, cs); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist challenge state failed")
		return
	}

	if len(cs.Votes) < len(state.Players)-1 {
		return
	}

	yes := 0
	for _, v := range cs.Votes {
		if v {
			yes++
		}
	}
	success := yes*2 >= len(cs.Votes)

	active := model.FindPlayer(state.Players, state.ActivePlayerID)
	if active == nil {
		s.log.Error().Str("game_id", gameID).Msg("Active player missing at challenge resolution")
		return
	}
	delta := cs.Bets[state.ActivePlayerID]
	message := "Défi réussi ! Vous gagnez votre mise."
	if !success {
		delta = -delta
		message = "Défi échoué, vous perdez votre mise."
	}
	active.Berries += delta

	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateMovement); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
	}

	s.log.Info().
		Str("game_id", gameID).
		Str("player", active.PlayerName).
		Bool("success", success).
		Int("delta", delta).
		Msg("Challenge resolved")

	s.rt.BroadcastToGame(gameID, realtime.EventChallengeResult, realtime.ChallengeResult{
		PlayerID: state.ActivePlayerID,
		Success:  success,
		Delta:    delta,
		Message:  message,
	})
}
