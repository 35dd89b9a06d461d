package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerksRenderer_RenderHTML(t *testing.T) {
	renderer := NewPerksRenderer()

	t.Run("renders markdown lists and emphasis", func(t *testing.T) {
		html, err := renderer.RenderHTML("## Perks\n\n- **Priority** entry\n- Free drink\n")
		require.NoError(t, err)
		assert.Contains(t, html, "<li>")
		assert.Contains(t, html, "<strong>Priority</strong>")
	})

	t.Run("strips script injection", func(t *testing.T) {
		html, err := renderer.RenderHTML("Hi <script>alert('x')</script> there")
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
		assert.NotContains(t, html, "alert")
	})

	t.Run("strips event handler attributes", func(t *testing.T) {
		html, err := renderer.RenderHTML(`<img src="x" onerror="steal()">`)
		require.NoError(t, err)
		assert.NotContains(t, html, "onerror")
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		html, err := renderer.RenderHTML("")
		require.NoError(t, err)
		assert.Empty(t, html)
	})
}
