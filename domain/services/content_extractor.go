package services

import (
	"strings"

	"canvas-backend/domain/core/entities"
)

// ExtractNodeContent concatenates a node's title, its type-specific payload
// text and its tags into one normalized lowercase string. This is the unit
// of retrieval for every search mode. The payload handling is an exhaustive
// match over the card data variants.
func ExtractNodeContent(node *entities.Node) string {
	parts := []string{node.Title()}

	switch data := node.Data().(type) {
	case entities.TextCardData:
		parts = append(parts, data.Content)
	case entities.ChecklistCardData:
		for _, item := range data.Items {
			parts = append(parts, item.Text)
		}
	case entities.LinkCardData:
		parts = append(parts, data.URL, data.Description)
	case entities.ReminderCardData:
		parts = append(parts, data.Description)
	case entities.VideoCardData:
		// Videos carry no text beyond their URL
		parts = append(parts, data.URL)
	}

	parts = append(parts, node.Tags()...)

	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " "))
}
