package overlay

import (
	"strings"
	"testing"

	"github.com/muesli/ansi"
	"github.com/stretchr/testify/assert"
)

func grid(w, h int, ch string) string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(ch, w)
	}
	return strings.Join(rows, "\n")
}

func TestPlaceOverlayAtPosition(t *testing.T) {
	got := PlaceOverlay(1, 1, "ab", grid(5, 3, "."), false, false)
	assert.Equal(t, ".....\n.ab..\n.....", got)
}

func TestPlaceOverlayCentered(t *testing.T) {
	got := PlaceOverlay(0, 0, "x", grid(5, 3, "."), false, true)
	assert.Equal(t, ".....\n..x..\n.....", got)
}

func TestPlaceOverlayClampsToBackground(t *testing.T) {
	got := PlaceOverlay(10, 10, "ab", grid(4, 2, "."), false, false)
	assert.Equal(t, "....\n..ab", got)
}

func TestPlaceOverlayLargerThanBackground(t *testing.T) {
	fg := grid(6, 4, "#")
	assert.Equal(t, fg, PlaceOverlay(0, 0, fg, grid(3, 2, "."), false, true))
}

func TestPlaceOverlayPadsShortBackgroundLines(t *testing.T) {
	bg := "......\n.\n......"
	got := PlaceOverlay(3, 1, "x", bg, false, false)
	lines := strings.Split(got, "\n")
	assert.Equal(t, ".  x", lines[1])
}

func TestPlaceOverlayWideRunes(t *testing.T) {
	bg := "가나다라\n가나다라"
	got := PlaceOverlay(2, 0, "xy", bg, false, false)
	lines := strings.Split(got, "\n")
	assert.Equal(t, "가xy다라", lines[0])
	assert.Equal(t, 8, ansi.PrintableRuneWidth(lines[0]))
	assert.Equal(t, "가나다라", lines[1])
}

func TestPlaceOverlayShadowKeepsBackgroundSize(t *testing.T) {
	bg := grid(20, 8, ".")
	got := PlaceOverlay(0, 0, "box", bg, true, true)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 8)
	for _, l := range lines {
		assert.Equal(t, 20, ansi.PrintableRuneWidth(l))
	}
	assert.Contains(t, got, "box")
	assert.Contains(t, got, "░")
}

func TestWhitespaceRender(t *testing.T) {
	ws := whitespace{chars: "ab"}
	assert.Equal(t, "abab", ws.render(4))
	assert.Equal(t, "", ws.render(0))
	assert.Equal(t, "   ", whitespace{}.render(3))
}
