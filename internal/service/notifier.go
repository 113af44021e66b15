package service

import (
	"context"
	"log/slog"

	"go-todo-rbac-service/internal/domain"
)

// LogWelcomeNotifier records the welcome event instead of sending mail.
// Swap in a real mailer behind the WelcomeNotifier interface when one exists.
type LogWelcomeNotifier struct {
	logger *slog.Logger
}

func NewLogWelcomeNotifier(logger *slog.Logger) *LogWelcomeNotifier {
	return &LogWelcomeNotifier{logger: logger}
}

func (n *LogWelcomeNotifier) NotifyWelcome(ctx context.Context, user *domain.User) {
	n.logger.InfoContext(ctx, "welcome notification", "user_id", user.ID, "email", user.Email)
}
