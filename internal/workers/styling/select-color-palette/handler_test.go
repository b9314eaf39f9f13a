// internal/workers/styling/select-color-palette/handler_test.go
package selectcolorpalette

import (
	"context"
	"testing"
	"time"

	"outfit-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, nil, logger.NewTestLogger(t))
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name       string
		input      *Input
		wantSeason string
		wantBest   string
	}{
		{"dark cool", &Input{SkinTone: "Dark", Undertone: "Cool"}, "Winter", "White"},
		{"lowercase light cool", &Input{SkinTone: "light", Undertone: "cool"}, "Summer", "Navy Blue"},
		{"medium warm", &Input{SkinTone: "MEDIUM", Undertone: "warm"}, "Autumn", "Olive Green"},
		{"light warm", &Input{SkinTone: "Light", Undertone: "Warm"}, "Spring", "Navy Blue"},
		{"neutral undertone", &Input{SkinTone: "Dark", Undertone: "Neutral"}, "Spring", "White"},
		{"nothing known", &Input{}, "Spring", "Black"},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeason, output.Palette.Season)
			require.NotEmpty(t, output.Recommendation.Best)
			assert.Equal(t, tt.wantBest, output.Recommendation.Best[0])
			assert.Len(t, output.Palette.PowerColors(), 6)
		})
	}
}
