package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrGameNotFound   ErrCode = "GAME_NOT_FOUND"
	ErrPlayerNotFound ErrCode = "PLAYER_NOT_FOUND"

	// ─── Game-specific ─────────────────────────────────────────────────
	ErrGameAlreadyStarted ErrCode = "GAME_ALREADY_STARTED"
	ErrInvalidMove        ErrCode = "INVALID_MOVE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the player-facing French message for an error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "La validation a échoué. Veuillez vérifier votre saisie."
	case ErrInvalidPayload:
		return "Le contenu de la requête est invalide."
	case ErrGameNotFound:
		return "Partie introuvable."
	case ErrPlayerNotFound:
		return "Joueur introuvable."
	case ErrGameAlreadyStarted:
		return "La partie a déjà commencé."
	case ErrInvalidMove:
		return "Mouvement invalide."
	case ErrRateLimitExceeded:
		return "Trop de requêtes. Veuillez réessayer plus tard."
	case ErrInternal:
		return "Une erreur interne est survenue."
	default:
		return "Une erreur est survenue."
	}
}
