package service

import (
	"context"
	"fmt"

	"mello-core/api"
	"mello-core/internal/models"
	"mello-core/internal/triage"
	"mello-core/pkg/response"
)

// Chat triages a free-text message: tags its category, raises the
// escalation flag on crisis content, and asks the injected Replier for
// a supportive answer. The exchange is logged when a subject is known.
func (s *Service) Chat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	const op = "service.Chat"

	if req.Message == "" {
		return nil, fmt.Errorf("%s: message is required: %w", op, response.ErrValidation)
	}

	category := triage.Categorize(req.Message)
	escalate := triage.Escalate(req.Message)

	prompt := fmt.Sprintf("%s\n\nStudent: %s\n\nMello:", triage.SystemPrompt, req.Message)

	reply, err := s.replier.GenerateReply(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: generate reply: %w", op, err)
	}

	if escalate {
		reply = reply + "\n\n" + triage.EscalationNotice
	}

	if req.SubjectID != "" {
		exchange := &models.ChatExchange{
			SubjectID: req.SubjectID,
			Message:   req.Message,
			Reply:     reply,
			Category:  category,
			Escalate:  escalate,
			CreatedAt: s.now().UTC(),
		}

		if err := s.store.SaveChatExchange(ctx, exchange); err != nil {
			return nil, fmt.Errorf("%s: save exchange: %w", op, err)
		}
	}

	return &api.ChatResponse{
		Reply:    reply,
		Category: category,
		Escalate: escalate,
	}, nil
}
