package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/beamarena/components"
	cfg "github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/fonts"
	"github.com/automoto/beamarena/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

const (
	hudBarWidth  = 130
	hudBarHeight = 13
	hudMargin    = 10
)

// DrawOverlays renders each visible gauge: a health bar centred on the
// anchor with the display name above it.
func DrawOverlays(e *ecs.ECS, screen *ebiten.Image) {
	face := fonts.Small.Get()
	barW := float32(cfg.Overlay.BarWidth)
	barH := float32(cfg.Overlay.BarHeight)

	components.Overlay.Each(e.World, func(entry *donburi.Entry) {
		b := components.Overlay.Get(entry).Binder
		if b == nil || b.Destroyed() || !b.Bound() {
			return
		}
		g := b.Gauge()
		if g.Alpha <= 0 {
			return
		}

		x := float32(g.X) - barW/2
		y := float32(g.Y)
		vector.DrawFilledRect(screen, x-1, y-1, barW+2, barH+2, cfg.BarBack, false)
		vector.DrawFilledRect(screen, x, y, barW*clamp01(g.Health), barH, healthColor(g.Health), false)

		if g.Name != "" {
			w := font.MeasureString(face, g.Name).Ceil()
			text.Draw(screen, g.Name, face, int(g.X)-w/2, int(y)-3, cfg.White)
		}
	})
}

// NewHUDRenderer returns a renderer for the session line and the local
// avatar's health in the top-left corner.
func NewHUDRenderer(serverName string, localNetID func() esync.NetworkId) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		count := 0
		tags.Avatar.Each(e.World, func(_ *donburi.Entry) {
			count++
		})
		info := fmt.Sprintf("%s - Avatars: %d", serverName, count)
		text.Draw(screen, info, fonts.Small.Get(), hudMargin, cfg.C.Height-hudMargin, cfg.LightGreen)

		entry, ok := localEntry(e.World, localNetID())
		if !ok {
			text.Draw(screen, "Waiting for spawn...", fonts.Regular.Get(), hudMargin, hudMargin+12, cfg.White)
			return
		}
		ctrl := controllerOf(entry)
		if ctrl == nil {
			return
		}

		health := ctrl.Health()
		vector.DrawFilledRect(screen,
			float32(hudMargin), float32(hudMargin),
			float32(hudBarWidth), float32(hudBarHeight),
			color.RGBA{40, 40, 40, 255}, false)
		vector.DrawFilledRect(screen,
			float32(hudMargin), float32(hudMargin),
			float32(hudBarWidth)*clamp01(health), float32(hudBarHeight),
			healthColor(health), false)

		hint := "F5 reload arena   Esc leave"
		if ctrl.Firing() {
			hint = "FIRING   " + hint
		}
		text.Draw(screen, hint, fonts.Small.Get(), hudMargin, hudMargin+hudBarHeight+12, cfg.White)
	}
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}

func healthColor(h float32) color.RGBA {
	switch {
	case h > 0.6:
		return cfg.LightGreen
	case h > 0.3:
		return cfg.Orange
	}
	return cfg.Red
}
