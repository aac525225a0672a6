// Package operators issues and checks the bearer tokens door staff and
// admins use on both transports.
package operators

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/jwt"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

var (
	ErrInvalidToken    = errors.New("invalid operator token")
	ErrInvalidOperator = errors.New("invalid operator")
)

type Authenticator struct {
	log      *slog.Logger
	secret   string
	tokenTTL time.Duration
}

func New(log *slog.Logger, secret string, tokenTTL time.Duration) *Authenticator {
	return &Authenticator{log: log, secret: secret, tokenTTL: tokenTTL}
}

func (a *Authenticator) AuthenticateByToken(token string) (models.Operator, error) {
	const op = "operators.AuthenticateByToken"

	operator, err := jwt.ParseToken(token, a.secret)
	if err != nil {
		return models.Operator{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	switch operator.Role {
	case models.RoleOperator, models.RoleAdmin:
	default:
		return models.Operator{}, fmt.Errorf("%s: %w: unknown role %q", op, ErrInvalidToken, operator.Role)
	}

	return operator, nil
}

// IssueToken signs a token for a new device or admin. An empty ID gets a
// generated one.
func (a *Authenticator) IssueToken(operator models.Operator) (models.Operator, string, error) {
	const op = "operators.IssueToken"
	log := a.log.With(slog.String("op", op))

	operator.Name = strings.TrimSpace(operator.Name)
	if operator.Name == "" {
		return models.Operator{}, "", fmt.Errorf("%s: %w: name is required", op, ErrInvalidOperator)
	}
	if operator.Role == "" {
		operator.Role = models.RoleOperator
	}
	if operator.Role != models.RoleOperator && operator.Role != models.RoleAdmin {
		return models.Operator{}, "", fmt.Errorf("%s: %w: unknown role %q", op, ErrInvalidOperator, operator.Role)
	}
	if operator.ID == "" {
		operator.ID = uuid.NewString()
	}

	token, err := jwt.NewToken(operator, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to sign token", sl.Err(err))
		return models.Operator{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("token issued",
		slog.String("operator_id", operator.ID),
		slog.String("role", string(operator.Role)),
		slog.Duration("ttl", a.tokenTTL),
	)

	return operator, token, nil
}
