package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skaares/linkpad/pkg/editor"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
	"github.com/skaares/linkpad/pkg/projection"
)

// Terminal cells are roughly twice as tall as wide, so one cell covers
// a 10x20 patch of canvas to keep the geometry visually square.
const (
	cellW = 10.0
	cellH = 20.0

	// fineStep is the cursor step with shift held, in canvas units.
	fineStep = 2.0
)

// Canvas styles
var (
	styleCursor   = lipgloss.NewStyle().Reverse(true)
	styleCrossing = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleVirtual  = lipgloss.NewStyle().Foreground(colorGray)
	styleMarker   = lipgloss.NewStyle().Foreground(colorRed).Bold(true).Blink(true)
	styleStatusOK = lipgloss.NewStyle().Foreground(colorGreen)
	styleStatusNo = lipgloss.NewStyle().Foreground(colorRed)
	styleBar      = lipgloss.NewStyle().Foreground(colorGray)
	styleBarHot   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// nudgeFlushMsg fires after the debounce window to deliver a trailing
// batch of nudges.
type nudgeFlushMsg struct{}

// canvasEvents collects presentation events from the engine. The model
// repaints the whole canvas every frame, so redraw and refresh events
// need no bookkeeping; only the marker and vertex visibility carry
// state between frames. The shared pointer survives bubbletea's value
// copies of the model.
type canvasEvents struct {
	marker *geom.Point
	hidden map[int]bool
}

func (e *canvasEvents) RedrawArrow(int)          {}
func (e *canvasEvents) ExposeVertex(id int)      { delete(e.hidden, id) }
func (e *canvasEvents) HideVertex(id int)        { e.hidden[id] = true }
func (e *canvasEvents) ShowMarker(x, y float64)  { e.marker = &geom.Point{X: x, Y: y} }
func (e *canvasEvents) ClearMarker()             { e.marker = nil }
func (e *canvasEvents) Refresh()                 {}

// editModel is the bubbletea model for the interactive editor.
type editModel struct {
	ed     *editor.Editor
	events *canvasEvents
	path   string

	cursor     geom.Point
	cols, rows int

	debounce time.Duration
	dirty    bool
	status   string
	isErr    bool
}

// newEditModel creates the editor model with a default canvas size;
// the first WindowSizeMsg resizes it.
func newEditModel(ed *editor.Editor, path string) *editModel {
	return &editModel{
		ed:       ed,
		events:   &canvasEvents{hidden: make(map[int]bool)},
		path:     path,
		cursor:   geom.Point{X: 200, Y: 100},
		cols:     72,
		rows:     20,
		debounce: editor.DefaultNudgeDebounce,
	}
}

func (m *editModel) Init() tea.Cmd {
	return nil
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-2, 20)
		m.rows = max(msg.Height-4, 10)
	case nudgeFlushMsg:
		m.gesture(m.ed.NudgeFlush())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *editModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.ed.State() == editor.StateDragging {
			m.gesture(m.ed.CancelDrag())
			return m, nil
		}
		fallthrough
	case "q":
		if m.ed.State() == editor.StateIdle {
			return m, tea.Quit
		}
		m.warn("finish the current gesture before quitting")

	case "up", "k":
		m.moveCursor(0, -cellH)
	case "down", "j":
		m.moveCursor(0, cellH)
	case "left", "h":
		m.moveCursor(-cellW, 0)
	case "right", "l":
		m.moveCursor(cellW, 0)

	case "shift+up":
		return m.fineMove(0, -1)
	case "shift+down":
		return m.fineMove(0, 1)
	case "shift+left":
		return m.fineMove(-1, 0)
	case "shift+right":
		return m.fineMove(1, 0)

	case " ", "enter":
		if m.ed.State() == editor.StateDragging {
			m.gesture(m.ed.EndDrag(m.cursor))
		} else {
			m.gesture(m.ed.Click(m.cursor))
		}
	case "d":
		m.gesture(m.ed.DoubleClick(m.cursor))
	case "x":
		m.gesture(m.ed.ShiftClick(m.cursor))
	case "backspace":
		m.gesture(m.ed.DeleteBack())

	case "n":
		m.setMode(editor.ModeNone)
	case "v":
		m.setMode(editor.ModeVertex)
	case "u":
		m.setMode(editor.ModeUnder)
	case "1":
		m.setMode(editor.ModeR1)
	case "2":
		m.setMode(editor.ModeR2)
	case "3":
		m.setMode(editor.ModeR3)

	case "t":
		m.ed.SetLocked(!m.ed.Locked())
	case "f":
		m.ed.Diagram().Reflect()
		m.dirty = true
	case "s":
		m.save()
	}
	return m, nil
}

// moveCursor moves the cursor by one cell, dragging the held vertex
// along when a drag is in progress.
func (m *editModel) moveCursor(dx, dy float64) {
	m.cursor.X = clamp(m.cursor.X+dx, 0, float64(m.cols)*cellW)
	m.cursor.Y = clamp(m.cursor.Y+dy, 0, float64(m.rows)*cellH)
	if m.ed.State() == editor.StateDragging {
		m.gesture(m.ed.MoveTo(m.cursor))
	}
}

// fineMove nudges the dragged vertex by one canvas unit, or moves the
// cursor by a fine step outside a drag. Nudges are debounced by the
// editor, so a flush is scheduled for the trailing batch.
func (m *editModel) fineMove(dx, dy float64) (tea.Model, tea.Cmd) {
	if m.ed.State() != editor.StateDragging {
		m.moveCursor(dx*fineStep, dy*fineStep)
		return m, nil
	}
	m.gesture(m.ed.Nudge(dx, dy))
	return m, tea.Tick(m.debounce, func(time.Time) tea.Msg { return nudgeFlushMsg{} })
}

func (m *editModel) setMode(mode editor.Mode) {
	m.ed.SetMode(mode)
	m.status = ""
	m.isErr = false
}

// gesture routes an engine result into the status line. A nil error
// marks the document dirty since every gesture mutates it.
func (m *editModel) gesture(err error) {
	if err != nil {
		m.status = errors.UserMessage(err)
		m.isErr = true
		return
	}
	m.status = ""
	m.isErr = false
	m.dirty = true
}

func (m *editModel) warn(msg string) {
	m.status = msg
	m.isErr = true
}

func (m *editModel) save() {
	if err := projection.WriteFile(m.path, m.ed.Diagram()); err != nil {
		m.warn(errors.UserMessage(err))
		return
	}
	m.dirty = false
	m.status = "saved " + m.path
	m.isErr = false
}

// =============================================================================
// Rendering
// =============================================================================

type cell struct {
	ch    string
	style lipgloss.Style
}

func (m *editModel) View() string {
	grid := make([][]cell, m.rows)
	for r := range grid {
		grid[r] = make([]cell, m.cols)
		for c := range grid[r] {
			grid[r][c] = cell{ch: " "}
		}
	}

	m.plotArrows(grid)
	m.plotCrossings(grid)
	m.plotVertices(grid)
	if mk := m.events.marker; mk != nil {
		m.plot(grid, *mk, "!", styleMarker)
	}

	if r, c, ok := m.cellAt(m.cursor); ok {
		grid[r][c].style = grid[r][c].style.Reverse(true)
		if grid[r][c].ch == " " {
			grid[r][c] = cell{ch: "+", style: styleCursor}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for _, c := range row {
			b.WriteString(c.style.Render(c.ch))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(
		"arrows move · space click · d double · x shift-click · bksp retract · v/u/1/2/3/n mode · t lock · s save · q quit"))
	return b.String()
}

func (m *editModel) plotArrows(grid [][]cell) {
	d := m.ed.Diagram()
	for _, a := range d.Arrows() {
		if a.End == 0 {
			continue
		}
		start, ok1 := d.Vertex(a.Start)
		end, ok2 := d.Vertex(a.End)
		if !ok1 || !ok2 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color))
		steps := int(start.Pos.Dist(end.Pos)/(cellW/2)) + 1
		for i := 0; i <= steps; i++ {
			p := geom.Lerp(start.Pos, end.Pos, float64(i)/float64(steps))
			m.plotFaint(grid, p, "·", style)
		}
	}
}

func (m *editModel) plotCrossings(grid [][]cell) {
	for _, c := range m.ed.Diagram().Crossings() {
		if c.Virtual {
			m.plot(grid, c.Pos, "o", styleVirtual)
		} else {
			m.plot(grid, c.Pos, "%", styleCrossing)
		}
	}
}

func (m *editModel) plotVertices(grid [][]cell) {
	for _, v := range m.ed.Diagram().Vertices() {
		if m.events.hidden[int(v.ID)] {
			continue
		}
		ch := "●"
		if v.ID == m.ed.ActiveVertex() && v.ID != 0 {
			ch = "◉"
		}
		m.plot(grid, v.Pos, ch, lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)))
	}
}

// plot writes a glyph at the cell covering p, overwriting whatever is
// there. plotFaint only fills empty cells, so strand dots never cover
// vertices or crossing marks.
func (m *editModel) plot(grid [][]cell, p geom.Point, ch string, style lipgloss.Style) {
	if r, c, ok := m.cellAt(p); ok {
		grid[r][c] = cell{ch: ch, style: style}
	}
}

func (m *editModel) plotFaint(grid [][]cell, p geom.Point, ch string, style lipgloss.Style) {
	if r, c, ok := m.cellAt(p); ok && grid[r][c].ch == " " {
		grid[r][c] = cell{ch: ch, style: style}
	}
}

func (m *editModel) cellAt(p geom.Point) (row, col int, ok bool) {
	col = int(p.X/cellW + 0.5)
	row = int(p.Y/cellH + 0.5)
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, 0, false
	}
	return row, col, true
}

func (m *editModel) statusBar() string {
	d := m.ed.Diagram()

	mark := ""
	if m.dirty {
		mark = " [+]"
	}
	lock := ""
	if m.ed.Locked() {
		lock = styleBarHot.Render(" locked")
	}

	left := fmt.Sprintf("%s · %s%s · %d vertices %d arrows %d crossings",
		styleBarHot.Render(m.ed.State().String()),
		styleBar.Render("mode "+m.ed.Mode().String()),
		lock,
		d.VertexCount(), d.ArrowCount(), d.CrossingCount())

	bar := styleBar.Render(m.path+mark) + "  " + left
	if m.status != "" {
		st := styleStatusOK
		if m.isErr {
			st = styleStatusNo
		}
		bar += "  " + st.Render(m.status)
	}
	return bar
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
