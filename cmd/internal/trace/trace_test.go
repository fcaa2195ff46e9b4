package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSpanIncrementsWithinRequest(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-1")

	assert.Equal(t, "0", CurrentSpan(ctx))

	id, span := NextSpan(ctx)
	assert.Equal(t, "req-1", id)
	assert.Equal(t, "1", span)

	_, span = NextSpan(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpan(ctx))
}

func TestNextSpanWithoutTrace(t *testing.T) {
	id, span := NextSpan(context.Background())
	assert.Len(t, id, 32)
	assert.Equal(t, "1", span)
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestWithRequestGeneratesID(t *testing.T) {
	ctx := WithRequest(context.Background(), "")
	assert.NotEmpty(t, RequestID(ctx))
}
