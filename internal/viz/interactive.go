package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var sceneInfo = map[string]string{
	"demo":  "two bodies, four particles",
	"stack": "falling column",
	"cloud": "seeded particle cloud",
	"pair":  "head-on mass ratio 1:4",
}

// BuildFunc prepares the live view for a named scene.
type BuildFunc func(scene string) (Model, error)

const (
	stateMenu = iota
	stateSim
)

// App lists scenes and opens the live view for the chosen one.
type App struct {
	state  int
	cursor int
	scenes []string
	build  BuildFunc
	live   Model
	err    error
	theme  Theme
}

func NewInteractiveApp(scenes []string, build BuildFunc) App {
	return App{scenes: scenes, build: build, theme: Themes[0]}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			a.live.drv.pause()
			a.state = stateMenu
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenes)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.scenes) == 0 {
			return a, nil
		}
		live, err := a.build(a.scenes[a.cursor])
		if err != nil {
			a.err = err
			return a, nil
		}
		a.live, a.state, a.err = live, stateSim, nil
		return a, a.live.Init()
	}
	return a, nil
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View() + "\n" + lipgloss.NewStyle().Foreground(a.theme.Muted).Render("esc: back to scenes")
	}

	title := lipgloss.NewStyle().Foreground(a.theme.Primary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(a.theme.Muted)
	sel := lipgloss.NewStyle().Foreground(a.theme.Secondary).Bold(true)

	var s strings.Builder
	s.WriteString(title.Render("PARTICLES") + "\n\n")
	for i, name := range a.scenes {
		line := fmt.Sprintf("%-8s %s", name, dim.Render(sceneInfo[name]))
		if i == a.cursor {
			s.WriteString(sel.Render("> "+name) + strings.TrimPrefix(line, name) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if a.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(a.theme.Error).Render(a.err.Error()) + "\n")
	}
	s.WriteString("\n" + dim.Render("↑↓ select · enter run · q quit"))
	return s.String()
}
