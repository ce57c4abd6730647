package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindConflict, http.StatusConflict},
		{KindUpstream, http.StatusInternalServerError},
		{KindAggregation, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestSentinelMatchingSurvivesWrappingAndMessages(t *testing.T) {
	err := fmt.Errorf("add to cart: %w", ErrInvalidQuantity.WithMessage("quantity 11 exceeds 10"))

	assert.True(t, errors.Is(err, ErrInvalidQuantity))
	assert.False(t, errors.Is(err, ErrEmptyCart))
	assert.True(t, IsValidation(err))
}

func TestAggregationWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Aggregation(cause)

	assert.True(t, errors.Is(err, ErrAggregationFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindAggregation, KindOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestConstructors(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("product")))
	assert.Equal(t, "product not found", NotFound("product").Message)
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsForbidden(Forbidden("no")))
	assert.True(t, IsUnauthorized(Unauthorized("no")))
	assert.Equal(t, KindUpstream, KindOf(Upstream("store", errors.New("x"))))
}
