package entities

import (
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "canvas-backend/pkg/errors"
)

// CardType discriminates the payload shape of a node
type CardType string

const (
	CardTypeText      CardType = "text"
	CardTypeChecklist CardType = "checklist"
	CardTypeVideo     CardType = "video"
	CardTypeLink      CardType = "link"
	CardTypeReminder  CardType = "reminder"
)

// AllCardTypes lists every valid card type
func AllCardTypes() []CardType {
	return []CardType{CardTypeText, CardTypeChecklist, CardTypeVideo, CardTypeLink, CardTypeReminder}
}

// ParseCardType validates and converts a raw string into a CardType
func ParseCardType(s string) (CardType, error) {
	switch CardType(s) {
	case CardTypeText, CardTypeChecklist, CardTypeVideo, CardTypeLink, CardTypeReminder:
		return CardType(s), nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown card type: %q", s))
	}
}

// CardData is the tagged union of per-card-type payloads. Each variant
// reports its own CardType; a node's discriminant must always match the
// variant it carries.
type CardData interface {
	CardType() CardType
	Clone() CardData
}

// TextCardData is the payload of a free-text card
type TextCardData struct {
	Content string
}

// CardType returns the discriminant for text cards
func (d TextCardData) CardType() CardType {
	return CardTypeText
}

// Clone returns a deep copy of the payload
func (d TextCardData) Clone() CardData {
	return d
}

// ChecklistItem is a single entry of a checklist card
type ChecklistItem struct {
	ID      string
	Text    string
	Checked bool
}

// ChecklistCardData is the payload of a checklist card
type ChecklistCardData struct {
	Items []ChecklistItem
}

// CardType returns the discriminant for checklist cards
func (d ChecklistCardData) CardType() CardType {
	return CardTypeChecklist
}

// Clone returns a deep copy of the payload
func (d ChecklistCardData) Clone() CardData {
	items := make([]ChecklistItem, len(d.Items))
	copy(items, d.Items)
	return ChecklistCardData{Items: items}
}

// VideoCardData is the payload of a video card
type VideoCardData struct {
	URL string
}

// CardType returns the discriminant for video cards
func (d VideoCardData) CardType() CardType {
	return CardTypeVideo
}

// Clone returns a deep copy of the payload
func (d VideoCardData) Clone() CardData {
	return d
}

// LinkCardData is the payload of a link card
type LinkCardData struct {
	URL         string
	Description string
}

// CardType returns the discriminant for link cards
func (d LinkCardData) CardType() CardType {
	return CardTypeLink
}

// Clone returns a deep copy of the payload
func (d LinkCardData) Clone() CardData {
	return d
}

// ReminderCardData is the payload of a reminder card
type ReminderCardData struct {
	Description string
	RemindAt    time.Time
}

// CardType returns the discriminant for reminder cards
func (d ReminderCardData) CardType() CardType {
	return CardTypeReminder
}

// Clone returns a deep copy of the payload
func (d ReminderCardData) Clone() CardData {
	return d
}

// cardDataEnvelope is the wire form of CardData: the discriminant plus the
// variant-specific payload.
type cardDataEnvelope struct {
	CardType CardType        `json:"cardType"`
	Payload  json.RawMessage `json:"payload"`
}

// MarshalCardData serializes a CardData variant with its discriminant
func MarshalCardData(data CardData) ([]byte, error) {
	if data == nil {
		return nil, pkgerrors.NewValidationError("card data cannot be nil")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal card payload", err)
	}

	return json.Marshal(cardDataEnvelope{
		CardType: data.CardType(),
		Payload:  payload,
	})
}

// UnmarshalCardData deserializes a CardData variant, selecting the concrete
// type by the envelope's discriminant
func UnmarshalCardData(raw []byte) (CardData, error) {
	var env cardDataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal card envelope", err)
	}

	switch env.CardType {
	case CardTypeText:
		var d TextCardData
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal text card", err)
		}
		return d, nil
	case CardTypeChecklist:
		var d ChecklistCardData
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal checklist card", err)
		}
		return d, nil
	case CardTypeVideo:
		var d VideoCardData
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal video card", err)
		}
		return d, nil
	case CardTypeLink:
		var d LinkCardData
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal link card", err)
		}
		return d, nil
	case CardTypeReminder:
		var d ReminderCardData
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return nil, pkgerrors.NewInternalError("failed to unmarshal reminder card", err)
		}
		return d, nil
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown card type: %q", env.CardType))
	}
}

// DefaultCardData returns the empty payload for a card type
func DefaultCardData(cardType CardType) (CardData, error) {
	switch cardType {
	case CardTypeText:
		return TextCardData{}, nil
	case CardTypeChecklist:
		return ChecklistCardData{}, nil
	case CardTypeVideo:
		return VideoCardData{}, nil
	case CardTypeLink:
		return LinkCardData{}, nil
	case CardTypeReminder:
		return ReminderCardData{}, nil
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown card type: %q", cardType))
	}
}
