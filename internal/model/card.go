package model

// CardCategory selects which handler runs a drawn card's sub-protocol.
type CardCategory string

const (
	CategoryQuiz      CardCategory = "Quiz"
	CategoryChallenge CardCategory = "Challenge"
	CategoryObject    CardCategory = "Object"
)

// Card is one entry of the card catalog.
type Card struct {
	ID          int          `json:"card_id"`
	Name        string       `json:"card_name"`
	Category    CardCategory `json:"card_category"`
	Description string       `json:"card_description"`
	Image       string       `json:"card_image"`
}

// AsItem converts an object card into an inventory item.
func (c *Card) AsItem() Item {
	return Item{
		ItemID:      c.ID,
		Name:        c.Name,
		Image:       c.Image,
		Description: c.Description,
	}
}
