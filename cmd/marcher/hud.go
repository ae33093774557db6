package main

import (
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/taigrr/marcher/pkg/radiosity"
)

var (
	hudBase   = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e28")).Padding(0, 1)
	hudFPS    = hudBase.Foreground(lipgloss.Color("#5fff87"))
	hudTitle  = hudBase.Foreground(lipgloss.Color("#ffffff")).Bold(true)
	hudInfo   = hudBase.Foreground(lipgloss.Color("#5fd7ff"))
	hudBaking = hudBase.Foreground(lipgloss.Color("#ffd75f")).Bold(true)
	hudHint   = hudBase.Foreground(lipgloss.Color("#8a8a8a"))
)

// BakeStatus is what the HUD knows about the lightmaps.
type BakeStatus struct {
	Baking bool
	Stats  radiosity.Stats
	Err    error
}

// ViewState holds the viewer toggles.
type ViewState struct {
	ShowHUD      bool
	ShowPatches  bool
	AnimateLight bool
	Frame        int
	Bake         BakeStatus
}

// HUD renders an overlay with scene info and controls
type HUD struct {
	scene     string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func NewHUD(scene string) *HUD {
	return &HUD{
		scene:   scene,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render writes the HUD straight to the terminal after the frame has been
// displayed. The top and bottom rows are always cleared so toggling off works.
func (h *HUD) Render(w io.Writer, width, height int, v *ViewState) {
	const clearLine = "\x1b[2K"
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Fprint(w, moveTo(1, 1)+clearLine)
	fmt.Fprint(w, moveTo(height, 1)+clearLine)

	// Bake progress shows even with the HUD off.
	if v.Bake.Baking {
		msg := hudBaking.Render("◉ baking lightmaps…")
		fmt.Fprint(w, moveTo(height, max((width-lipgloss.Width(msg))/2, 1))+msg)
	}
	if !v.ShowHUD {
		return
	}

	fmt.Fprint(w, moveTo(1, 1)+hudFPS.Render(fmt.Sprintf("%.0f FPS", h.fps)))

	title := hudTitle.Render(h.scene)
	fmt.Fprint(w, moveTo(1, max((width-lipgloss.Width(title))/2, 1))+title)

	info := hudInfo.Render(h.bakeLine(v))
	fmt.Fprint(w, moveTo(1, max(width-lipgloss.Width(info)+1, 1))+info)

	if v.Bake.Baking {
		return
	}
	hint := hudHint.Render(fmt.Sprintf("frame %d  %s patches  %s light  B bake  ? hud",
		v.Frame, check(v.ShowPatches), check(v.AnimateLight)))
	fmt.Fprint(w, moveTo(height, 1)+hint)
}

func (h *HUD) bakeLine(v *ViewState) string {
	switch {
	case v.Bake.Err != nil:
		return "bake failed"
	case v.Bake.Stats.Patches == 0:
		return "unbaked"
	default:
		return fmt.Sprintf("%d patches · %d bounces · %s",
			v.Bake.Stats.Patches, v.Bake.Stats.Bounces, v.Bake.Stats.Duration.Round(time.Millisecond))
	}
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}
