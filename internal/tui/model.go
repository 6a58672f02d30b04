package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xcel/profile/internal/profileview"
)

type (
	loadedMsg      struct{}
	submittedMsg   struct{}
	loggedOutMsg   struct{}
	imageFailedMsg struct{ err error }
)

// Navigator remembers that the view asked for the sign-in screen. View
// operations run inside tea.Cmd goroutines, hence the lock.
type Navigator struct {
	mu   sync.Mutex
	path string
}

func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// ImageProbe reports whether an image URL can be loaded.
type ImageProbe func(ctx context.Context, url string) error

// HTTPProbe issues a HEAD request and treats any non-2xx as a load failure.
func HTTPProbe(c *http.Client) ImageProbe {
	return func(ctx context.Context, u string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
		if err != nil {
			return err
		}
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("image responded %d", resp.StatusCode)
		}
		return nil
	}
}

type field struct {
	label string
	get   func(profileview.Profile) string
	set   func(*profileview.Profile, string)
}

var fields = []field{
	{"Username", func(p profileview.Profile) string { return p.Username }, func(p *profileview.Profile, v string) { p.Username = v }},
	{"Email", func(p profileview.Profile) string { return p.Email }, func(p *profileview.Profile, v string) { p.Email = v }},
	{"First name", func(p profileview.Profile) string { return p.FirstName }, func(p *profileview.Profile, v string) { p.FirstName = v }},
	{"Last name", func(p profileview.Profile) string { return p.LastName }, func(p *profileview.Profile, v string) { p.LastName = v }},
	{"Bio", func(p profileview.Profile) string { return p.Bio }, func(p *profileview.Profile, v string) { p.Bio = v }},
}

type Config struct {
	// Location plays the role of the page URL; only its query is read.
	Location     *url.URL
	ImageBaseURL string
	Probe        ImageProbe
}

// Model is the bubbletea program around a profileview.View.
type Model struct {
	ctx   context.Context
	view  *profileview.View
	nav   *Navigator
	cfg   Config
	image *profileview.Image

	spinner spinner.Model
	inputs  []textinput.Model
	focus   int
	busy    bool

	signedOut bool
	styles    styles
	now       func() time.Time
}

// New builds the model. nav must be the Navigator the view was built with;
// use NewNavigator.
func New(ctx context.Context, view *profileview.View, nav *Navigator, cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.label
		ti.CharLimit = 1000
		ti.Width = 40
		inputs[i] = ti
	}

	if cfg.Location == nil {
		cfg.Location = &url.URL{}
	}

	return Model{
		ctx:     ctx,
		view:    view,
		nav:     nav,
		cfg:     cfg,
		spinner: sp,
		inputs:  inputs,
		styles:  defaultStyles(),
		now:     time.Now,
	}
}

// NewNavigator returns the navigator to hand to profileview.New.
func NewNavigator() *Navigator { return &Navigator{} }

// SignedOut reports whether the program ended because the view went to
// sign-in, either for lack of a token or after logout.
func (m Model) SignedOut() bool { return m.signedOut }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		m.view.Load(m.ctx, m.cfg.Location.Query())
		return loadedMsg{}
	}
}

func (m Model) submit(p profileview.Profile) tea.Cmd {
	return func() tea.Msg {
		m.view.SubmitEdit(m.ctx, p)
		return submittedMsg{}
	}
}

func (m Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.view.Logout(m.ctx)
		return loggedOutMsg{}
	}
}

func (m Model) probe(src string) tea.Cmd {
	if m.cfg.Probe == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.cfg.Probe(m.ctx, src); err != nil {
			return imageFailedMsg{err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if m.nav.Path() != "" {
			m.signedOut = true
			return m, tea.Quit
		}
		st := m.view.State()
		if !st.ShowProfile() {
			return m, nil
		}
		m.image = m.newImage(st.Profile)
		return m, m.probe(m.image.Src())

	case submittedMsg:
		m.busy = false
		st := m.view.State()
		if !st.Editing {
			m.blurAll()
			m.image = m.newImage(st.Profile)
			return m, m.probe(m.image.Src())
		}
		return m, nil

	case loggedOutMsg:
		m.signedOut = true
		return m, tea.Quit

	case imageFailedMsg:
		if m.image != nil {
			m.image.Fail()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	st := m.view.State()
	if st.Editing {
		switch msg.String() {
		case "esc":
			m.view.CancelEdit()
			m.blurAll()
			return m, nil
		case "enter":
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.submit(m.formProfile(st.Profile)))
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % len(m.inputs))
		case "shift+tab", "up":
			return m, m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "e":
		if !st.ShowProfile() {
			return m, nil
		}
		m.view.Edit()
		for i, f := range fields {
			m.inputs[i].SetValue(f.get(st.Profile))
		}
		return m, m.setFocus(0)
	case "l":
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.logout())
	}
	return m, nil
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.blurAll()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// formProfile is the current profile with the form's values laid over it, so
// fields the form does not show are sent back unchanged.
func (m Model) formProfile(base profileview.Profile) profileview.Profile {
	p := base
	for i, f := range fields {
		f.set(&p, m.inputs[i].Value())
	}
	return p
}

func (m Model) newImage(p profileview.Profile) *profileview.Image {
	if p.ProfileImage == "" {
		img := profileview.NewImage("")
		img.Fail()
		return img
	}
	return profileview.NewImage(profileview.ImageURL(m.cfg.ImageBaseURL, p.ProfileImage, m.now()))
}

func (m Model) View() string {
	st := m.view.State()
	s := m.styles

	var b strings.Builder
	switch {
	case st.ShowLoading():
		fmt.Fprintf(&b, "%s Loading profile...\n", m.spinner.View())
		return b.String()
	case st.ShowError():
		b.WriteString(s.err.Render(st.Err) + "\n\n")
	}

	if st.Editing {
		b.WriteString(s.title.Render("Edit profile") + "\n\n")
		for i, f := range fields {
			label := s.label.Render(f.label)
			if i == m.focus {
				label = s.focused.Render(fmt.Sprintf("%-12s", f.label))
			}
			b.WriteString(label + " " + m.inputs[i].View() + "\n")
		}
		if m.busy {
			b.WriteString("\n" + m.spinner.View() + " Saving...\n")
		}
		b.WriteString("\n" + s.help.Render("tab next field • enter save • esc cancel"))
		return s.card.Render(b.String()) + "\n"
	}

	if st.ShowProfile() {
		p := st.Profile
		b.WriteString(s.title.Render(p.Username) + "\n\n")
		for _, row := range [][2]string{
			{"Email", p.Email},
			{"First name", p.FirstName},
			{"Last name", p.LastName},
			{"Bio", p.Bio},
		} {
			b.WriteString(s.label.Render(row[0]) + " " + s.value.Render(row[1]) + "\n")
		}
		if m.image != nil {
			b.WriteString(s.label.Render("Image") + " " + s.value.Render(m.image.Src()) + "\n")
		}
		if m.busy {
			b.WriteString("\n" + m.spinner.View() + " Logging out...\n")
		}
		b.WriteString("\n" + s.help.Render("e edit • l logout • q quit"))
		return s.card.Render(b.String()) + "\n"
	}

	b.WriteString(s.help.Render("q quit"))
	return b.String() + "\n"
}
