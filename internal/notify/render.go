package notify

import (
	"fmt"
	"unicode/utf8"

	"github.com/reseau-local/reseau/internal/events"
	"github.com/reseau-local/reseau/internal/models"
)

// excerptLength bounds the post text copied into a payload, in runes
const excerptLength = 80

var contentNouns = map[models.ContentType]string{
	models.ContentPost:        "publication",
	models.ContentEvent:       "événement",
	models.ContentPlace:       "lieu",
	models.ContentOpportunity: "opportunité",
	models.ContentShop:        "boutique",
	models.ContentProduct:     "produit",
	models.ContentUser:        "profil",
}

// Message renders the French notification text shown to the recipient
func Message(typ events.Type, actorName string, contentType models.ContentType) string {
	noun, ok := contentNouns[contentType]
	if !ok {
		noun = "contenu"
	}
	switch typ {
	case events.TypeFollow:
		return fmt.Sprintf("%s a commencé à vous suivre", actorName)
	case events.TypeLike:
		return fmt.Sprintf("%s a aimé votre %s", actorName, noun)
	case events.TypeComment:
		return fmt.Sprintf("%s a commenté votre %s", actorName, noun)
	default:
		return fmt.Sprintf("Nouvelle activité de %s", actorName)
	}
}

// buildPayload picks the payload variant for the event's content type
func buildPayload(e events.Event, actor *models.User, post *models.Post) models.Payload {
	switch e.ContentType {
	case models.ContentUser:
		return models.UserPayload{UserID: actor.ID, DisplayName: actor.Name()}
	case models.ContentPost:
		p := models.PostPayload{PostID: e.ContentID}
		if post != nil {
			p.Excerpt = excerpt(post.Content)
		}
		return p
	case models.ContentEvent:
		return models.EventPayload{EventID: e.ContentID}
	case models.ContentPlace:
		return models.PlacePayload{PlaceID: e.ContentID}
	case models.ContentOpportunity:
		return models.OpportunityPayload{OpportunityID: e.ContentID}
	case models.ContentShop:
		return models.ShopPayload{ShopID: e.ContentID}
	case models.ContentProduct:
		return models.ProductPayload{ProductID: e.ContentID}
	}
	return nil
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= excerptLength {
		return s
	}
	r := []rune(s)
	return string(r[:excerptLength]) + "…"
}
