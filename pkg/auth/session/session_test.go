package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
)

func TestSessionContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	want := Session{UserID: "uid", Phone: "9876543210", Language: enums.LanguageHindi, Location: "Delhi"}
	got, ok := FromContext(WithSession(context.Background(), want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
