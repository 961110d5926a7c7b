package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomStart(t *testing.T) {
	t.Run("segment always fits inside a 10s source", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			start := RandomStart(10, 7)
			assert.GreaterOrEqual(t, start, 0.0)
			assert.LessOrEqual(t, start, 3.0)
		}
	})

	t.Run("source shorter than segment starts at zero", func(t *testing.T) {
		assert.Equal(t, 0.0, RandomStart(5, 7))
	})

	t.Run("source equal to segment starts at zero", func(t *testing.T) {
		assert.Equal(t, 0.0, RandomStart(7, 7))
	})
}
