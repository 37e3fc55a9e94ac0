package showroom

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is how often the frame rate line is refreshed, in seconds.
const hudRefresh = 0.5

// hud prints frame rate, the hovered object and the character clip in the
// top-left corner.
type hud struct {
	rates   string
	elapsed float32
}

func (h *hud) update(dt float32) {
	h.elapsed += dt
	if h.elapsed < hudRefresh && h.rates != "" {
		return
	}
	h.elapsed = 0
	h.rates = fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (h *hud) draw(screen *ebiten.Image, s *Scene) {
	ebitenutil.DebugPrint(screen, hudText(h.rates, s))
}

func hudText(rates string, s *Scene) string {
	var b strings.Builder
	b.WriteString(rates)
	if target, ok := s.dispatcher.HoverTarget(); ok {
		fmt.Fprintf(&b, "\nhover: %s", target)
	}
	if wc, ok := s.character.(*WalkController); ok {
		mode := "walk"
		if wc.Running() {
			mode = "run"
		}
		fmt.Fprintf(&b, "\n%s (%s)", wc.Clip(), mode)
	}
	if s.debug {
		fmt.Fprintf(&b, "\ninteractable: %d", countInteractable(s.root))
	}
	return b.String()
}
