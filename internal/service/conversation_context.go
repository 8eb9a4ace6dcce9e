package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"career-advisor/internal/domain"
	"career-advisor/internal/repository"
)

// HistoryWindow es la cantidad de mensajes previos que entran al prompt del asesor.
const HistoryWindow = 10

// ConversationContext recupera los ultimos mensajes de una sesion y los formatea como texto plano.
type ConversationContext struct {
	messageRepo repository.MessageRepository
	window      int
}

func NewConversationContext(messageRepo repository.MessageRepository, window int) *ConversationContext {
	if window <= 0 {
		window = HistoryWindow
	}
	return &ConversationContext{messageRepo: messageRepo, window: window}
}

// Recent devuelve a lo sumo window mensajes, del mas viejo al mas nuevo.
func (c *ConversationContext) Recent(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return []domain.Message{}, nil
	}
	messages, err := c.messageRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > c.window {
		messages = messages[len(messages)-c.window:]
	}
	return messages, nil
}

// FormatTranscript arma "User: ..." / "Advisor: ..." una linea por mensaje.
func FormatTranscript(messages []domain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := "User"
		if m.Role == domain.RoleAdvisor {
			role = "Advisor"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, strings.TrimSpace(m.Content)))
	}
	return strings.Join(lines, "\n")
}
