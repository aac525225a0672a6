package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type guestRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(guestRequest{Name: "Ada Obi"}))
	assert.NoError(t, Struct(&guestRequest{Name: "Ada Obi", Email: "ada@example.com"}))

	err := Struct(guestRequest{Email: "not-an-email"})
	assert.EqualError(t, err, "name required; email email")

	assert.Error(t, Struct(nil))
	assert.Error(t, Struct(42))
}
