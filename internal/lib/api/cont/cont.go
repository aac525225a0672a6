package cont

import (
	"context"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
)

type ctxKey string

const operatorKey ctxKey = "operator"

func PutOperator(ctx context.Context, operator models.Operator) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

// GetOperator returns the authenticated operator, ok is false for anonymous requests.
func GetOperator(ctx context.Context) (models.Operator, bool) {
	operator, ok := ctx.Value(operatorKey).(models.Operator)
	return operator, ok
}
