package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

type stubAIClient struct {
	pair models.TypePair
	err  error
}

func (s *stubAIClient) DetectTypes(_ context.Context, _ string) (models.TypePair, error) {
	return s.pair, s.err
}

func TestAIStrategyDetect(t *testing.T) {
	tests := []struct {
		name   string
		client AIClient
		wantOK bool
	}{
		{
			name:   "successful classification",
			client: &stubAIClient{pair: models.TypePair{MainType: "Food", SubType: "Dining"}},
			wantOK: true,
		},
		{
			name:   "client error degrades to no match",
			client: &stubAIClient{err: errors.New("quota exceeded")},
			wantOK: false,
		},
		{
			name:   "zero pair is no match",
			client: &stubAIClient{},
			wantOK: false,
		},
		{
			name:   "nil client is no match",
			client: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewAIStrategy(tt.client, &logging.MockLogger{})
			_, ok := strategy.Detect(context.Background(), "some expense")
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseTypeResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     models.TypePair
	}{
		{
			name:     "well formed response",
			response: "Main: Food\nSub: Groceries",
			want:     models.TypePair{MainType: "Food", SubType: "Groceries"},
		},
		{
			name:     "extra whitespace and chatter",
			response: "Sure!\n  Main:  Travel \n  Sub: Cab \nHope that helps.",
			want:     models.TypePair{MainType: "Travel", SubType: "Cab"},
		},
		{
			name:     "missing sub type yields zero pair",
			response: "Main: Food",
			want:     models.TypePair{},
		},
		{
			name:     "garbage yields zero pair",
			response: "I cannot classify this.",
			want:     models.TypePair{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTypeResponse(tt.response))
		})
	}
}
