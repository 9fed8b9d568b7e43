package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

// newExploreCmd returns the "explore" subcommand for interactive browsing.
func newExploreCmd() *cobra.Command {
	var tv bool
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse interactively",
		Long: "Browse, search, sort and filter titles in an interactive list.\n" +
			"Press / to search, s to change the order, t to switch movies and TV,\n" +
			"g to toggle a genre id, y for a year range, v for a rating range,\n" +
			"up/down to select, enter for details, n for more results, r to retry,\n" +
			"x to reset and q to quit.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runExplore(mediaFlag(tv))
		},
	}
	cmd.Flags().BoolVar(&tv, "tv", false, "start with TV series")
	return cmd
}

// runExplore starts the Bubble Tea list browser.
func runExplore(mt catalog.MediaType) error {
	return withServices(false, func(ctx context.Context, s *services) error {
		loader := explore.Loader{Catalog: s.catalog}
		p := tea.NewProgram(newExploreModel(ctx, loader, s.catalog, mt), tea.WithAltScreen())

		// Bridge OS signal cancellation into the Bubble Tea event loop.
		go func() {
			<-ctx.Done()
			p.Send(tea.Quit())
		}()

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run explore: %w", err)
		}
		return nil
	})
}

// fetcher executes a list query.
type fetcher interface {
	Fetch(ctx context.Context, q explore.Query) explore.Result
}

// detailer loads the full record of one title.
type detailer interface {
	Details(ctx context.Context, k catalog.Key) (*catalog.Detail, error)
}

// exploreResultMsg carries a query result back to the TUI.
type exploreResultMsg struct {
	result explore.Result
}

// exploreDetailMsg carries a detail lookup back to the TUI.
type exploreDetailMsg struct {
	key    catalog.Key
	detail *catalog.Detail
	err    error
}

// inputMode says what the text input is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputGenre
	inputYears
	inputRatings
)

// detailView is the open detail pane.
type detailView struct {
	key    catalog.Key
	detail *catalog.Detail
	err    error
}

// exploreModel is the Bubble Tea model for the list browser. All list
// semantics live in explore.State; the model only renders it and turns keys
// into transitions.
type exploreModel struct {
	ctx       context.Context
	loader    fetcher
	details   detailer
	state     explore.State
	viewport  viewport.Model
	textinput textinput.Model
	spinner   spinner.Model
	start     explore.Query
	input     inputMode
	cursor    int
	detail    *detailView
	notice    string
	width     int
	height    int
	ready     bool
}

// newExploreModel creates an explorer for mt that is loading its first page.
func newExploreModel(ctx context.Context, loader fetcher, details detailer, mt catalog.MediaType) exploreModel {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	st, q := explore.New(mt, now).Start()
	return exploreModel{
		ctx:       ctx,
		loader:    loader,
		details:   details,
		state:     st,
		start:     q,
		textinput: ti,
		spinner:   s,
	}
}

// Init runs the first-page query.
func (m exploreModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.start), m.spinner.Tick)
}

// Update handles incoming messages and user input.
func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case tea.KeyMsg:
		m.notice = ""
		if m.input != inputNone {
			model, cmd, handled := m.handleInputKey(msg)
			if handled {
				return model, cmd
			}
			var tiCmd tea.Cmd
			m.textinput, tiCmd = m.textinput.Update(msg)
			return m, tiCmd
		}
		if m.detail != nil {
			model, cmd, handled := m.handleDetailKey(msg)
			if handled {
				return model, cmd
			}
			break
		}
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}

	case exploreResultMsg:
		m.state = m.state.Receive(msg.result)
		if m.state.Params.Page <= 1 {
			m.cursor = 0
		}
		m.refresh()
		return m, nil

	case exploreDetailMsg:
		if m.detail == nil || m.detail.key != msg.key {
			return m, nil
		}
		d := *m.detail
		d.detail, d.err = msg.detail, msg.err
		m.detail = &d
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.ready {
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
	}
	return m, tea.Batch(cmds...)
}

// loading reports whether a list page or a detail lookup is in flight.
func (m exploreModel) loading() bool {
	if m.detail != nil {
		return m.detail.detail == nil && m.detail.err == nil
	}
	return m.state.Status == explore.StatusLoading
}

// handleResize adjusts viewport and text input dimensions on terminal resize.
func (m *exploreModel) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	headerHeight := 2
	footerHeight := 4
	vpHeight := max(m.height-headerHeight-footerHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.textinput.Width = m.width - 4
	m.refresh()
}

// handleKey maps browse-mode keys to state transitions.
func (m *exploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return *m, tea.Quit, true
	case "/":
		return m.openInput(inputSearch, m.state.Params.Search)
	case "g":
		return m.openInput(inputGenre, "")
	case "y":
		f := m.state.Params.Filters
		return m.openInput(inputYears, fmt.Sprintf("%d-%d", f.YearFrom, f.YearTo))
	case "v":
		f := m.state.Params.Filters
		return m.openInput(inputRatings, fmt.Sprintf("%g-%g", f.RatingFrom, f.RatingTo))
	case "s":
		p := m.state.Params
		return m.apply(m.state.SetSort(nextSort(p.Sort, p.MediaType)))
	case "t":
		mt := catalog.TV
		if m.state.Params.MediaType == catalog.TV {
			mt = catalog.Movie
		}
		return m.apply(m.state.SetMediaType(mt))
	case "n":
		return m.apply(m.state.LoadMore())
	case "r":
		return m.apply(m.state.Retry())
	case "x":
		return m.apply(m.state.ResetFilters())
	case "up", "k":
		m.moveCursor(-1)
		return *m, nil, true
	case "down", "j":
		m.moveCursor(1)
		return *m, nil, true
	case "enter", "d":
		return m.openDetail()
	}
	return *m, nil, false
}

// handleDetailKey closes the detail pane or quits. Other keys scroll.
func (m *exploreModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return *m, tea.Quit, true
	case "esc", "backspace", "b":
		m.detail = nil
		m.refresh()
		return *m, nil, true
	}
	return *m, nil, false
}

// openInput focuses the text input for mode, prefilled with value.
func (m *exploreModel) openInput(mode inputMode, value string) (tea.Model, tea.Cmd, bool) {
	m.input = mode
	switch mode {
	case inputGenre:
		m.textinput.Prompt = "Genre id: "
		m.textinput.Placeholder = "e.g. 878 (cinescope genres lists them)"
	case inputYears:
		m.textinput.Prompt = "Years: "
		m.textinput.Placeholder = "from-to, e.g. 1990-1999"
	case inputRatings:
		m.textinput.Prompt = "Rating: "
		m.textinput.Placeholder = "from-to, e.g. 7-10"
	default:
		m.textinput.Prompt = "> "
		m.textinput.Placeholder = "Search titles..."
	}
	m.textinput.SetValue(value)
	m.textinput.CursorEnd()
	cmd := m.textinput.Focus()
	return *m, cmd, true
}

// handleInputKey submits or cancels the text input.
func (m *exploreModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return *m, tea.Quit, true
	case "esc":
		m.input = inputNone
		m.textinput.Blur()
		return *m, nil, true
	case "enter":
		mode := m.input
		m.input = inputNone
		m.textinput.Blur()
		return m.submit(mode, m.textinput.Value())
	}
	return *m, nil, false
}

// submit turns a finished input into a transition. Unparsable input leaves
// the state alone and shows a notice.
func (m *exploreModel) submit(mode inputMode, value string) (tea.Model, tea.Cmd, bool) {
	switch mode {
	case inputGenre:
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || id <= 0 {
			m.notice = "Genre ids are positive numbers."
			return *m, nil, true
		}
		return m.apply(m.state.ToggleGenre(id))
	case inputYears:
		from, to, ok := parseBounds(value, strconv.Atoi)
		if !ok {
			m.notice = "Enter years as from-to, e.g. 1990-1999."
			return *m, nil, true
		}
		return m.apply(m.state.SetYearRange(from, to))
	case inputRatings:
		from, to, ok := parseBounds(value, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
		if !ok {
			m.notice = "Enter ratings as from-to, e.g. 7-10."
			return *m, nil, true
		}
		return m.apply(m.state.SetRatingRange(from, to))
	}
	return m.apply(m.state.Search(value))
}

// moveCursor shifts the selection by delta and keeps it on screen.
func (m *exploreModel) moveCursor(delta int) {
	n := len(m.state.Visible())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.refresh()
	if !m.ready {
		return
	}
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if bottom := m.viewport.YOffset + m.viewport.Height; m.cursor >= bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// openDetail starts loading the selected title into the detail pane.
func (m *exploreModel) openDetail() (tea.Model, tea.Cmd, bool) {
	items := m.state.Visible()
	if len(items) == 0 || m.details == nil {
		return *m, nil, true
	}
	k := items[min(m.cursor, len(items)-1)].Key()
	m.detail = &detailView{key: k}
	m.refresh()
	if m.ready {
		m.viewport.GotoTop()
	}

	ctx, details := m.ctx, m.details
	load := func() tea.Msg {
		d, err := details.Details(ctx, k)
		return exploreDetailMsg{key: k, detail: d, err: err}
	}
	return *m, tea.Batch(load, m.spinner.Tick), true
}

// apply stores a transition's state and runs its query, if any.
func (m *exploreModel) apply(st explore.State, q explore.Query) (tea.Model, tea.Cmd, bool) {
	m.state = st
	m.refresh()
	if q.IsZero() {
		return *m, nil, true
	}
	if m.ready && q.Params.Page <= 1 {
		m.viewport.GotoTop()
	}
	return *m, tea.Batch(m.fetch(q), m.spinner.Tick), true
}

// fetch returns a command that runs q asynchronously.
func (m exploreModel) fetch(q explore.Query) tea.Cmd {
	if q.IsZero() {
		return nil
	}
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		return exploreResultMsg{result: loader.Fetch(ctx, q)}
	}
}

// refresh re-renders the list or the detail pane into the viewport.
func (m *exploreModel) refresh() {
	if n := len(m.state.Visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if !m.ready {
		return
	}
	if m.detail != nil {
		m.viewport.SetContent(m.renderDetail())
		return
	}
	m.viewport.SetContent(m.renderItems())
}

// View renders the header, the list, the status line and the text input.
func (m exploreModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("5")).
		Render("CineScope")

	inputBorder := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8"))

	footer := m.statusLine()
	if m.input != inputNone {
		footer = inputBorder.Render(m.textinput.View())
	}

	help := "/ search · s sort · t movies/tv · g genre · y years · v rating · enter details · n more · r retry · x reset · q quit"
	if m.detail != nil {
		help = "esc back · ↑/↓ scroll · q quit"
	}

	return title + "  " + styleDim.Render(m.describe()) + "\n\n" +
		m.viewport.View() + "\n" +
		footer + "\n" +
		styleDim.Render(help)
}

// describe summarizes the current parameters.
func (m exploreModel) describe() string {
	p := m.state.Params
	parts := []string{mediaLabel(p.MediaType), p.Sort.Label()}
	if p.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", p.Search))
	}
	d := catalog.DefaultFilters(now())
	f := p.Filters
	if len(f.GenreIDs) > 0 {
		ids := make([]string, len(f.GenreIDs))
		for i, id := range f.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		parts = append(parts, "genres "+strings.Join(ids, ","))
	}
	if f.YearFrom != d.YearFrom || f.YearTo != d.YearTo {
		parts = append(parts, fmt.Sprintf("years %d-%d", f.YearFrom, f.YearTo))
	}
	if f.RatingFrom != d.RatingFrom || f.RatingTo != d.RatingTo {
		parts = append(parts, fmt.Sprintf("rating %g-%g", f.RatingFrom, f.RatingTo))
	}
	return strings.Join(parts, " · ")
}

// statusLine reports notices, loading, errors and paging.
func (m exploreModel) statusLine() string {
	if m.notice != "" {
		return styleError.Render(m.notice)
	}
	if m.detail != nil {
		switch {
		case m.detail.err != nil:
			return styleError.Render("Could not load details.") + styleDim.Render(" Press esc to go back.")
		case m.detail.detail == nil:
			return m.spinner.View() + styleDim.Render(" Loading details...")
		}
		return styleDim.Render(m.detail.key.String())
	}
	switch m.state.Status {
	case explore.StatusLoading:
		return m.spinner.View() + styleDim.Render(" Loading...")
	case explore.StatusErrored:
		return styleError.Render("TMDb is unavailable right now.") + styleDim.Render(" Press r to retry.")
	case explore.StatusLoaded:
		visible := len(m.state.Visible())
		line := fmt.Sprintf("%d shown · %d results", visible, m.state.TotalResults)
		if m.state.HasMore {
			line += " · n for more"
		}
		return styleDim.Render(line)
	}
	return ""
}

// renderItems formats the visible items for the viewport, marking the
// selected row.
func (m exploreModel) renderItems() string {
	items := m.state.Visible()
	if len(items) == 0 {
		if m.state.Status == explore.StatusLoaded {
			return styleDim.Render("Nothing matched.")
		}
		return ""
	}
	var b strings.Builder
	for i, s := range items {
		marker := "  "
		if i == m.cursor {
			marker = styleInfo.Render("› ")
		}
		b.WriteString(marker + formatSummary(i+1, s) + "\n")
	}
	return b.String()
}

// renderDetail formats the open detail pane.
func (m exploreModel) renderDetail() string {
	if m.detail.detail == nil {
		return ""
	}
	return formatDetail(m.detail.detail)
}

// nextSort cycles through the orders mt supports.
func nextSort(s explore.Sort, mt catalog.MediaType) explore.Sort {
	sorts := explore.SortsFor(mt)
	i := slices.Index(sorts, s)
	return sorts[(i+1)%len(sorts)]
}

// parseBounds reads "from-to", "from to" or a single value as an inclusive
// pair.
func parseBounds[T int | float64](s string, parse func(string) (T, error)) (T, T, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ',' || r == ' ' })
	var zero T
	if len(fields) == 0 || len(fields) > 2 {
		return zero, zero, false
	}
	from, err := parse(fields[0])
	if err != nil {
		return zero, zero, false
	}
	to := from
	if len(fields) == 2 {
		if to, err = parse(fields[1]); err != nil {
			return zero, zero, false
		}
	}
	return from, to, true
}
