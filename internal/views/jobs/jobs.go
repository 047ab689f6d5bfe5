// Package jobs is the job-postings screen: a live-refreshing list with
// create, edit, and delete.
package jobs

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
	"github.com/jobsetu/admin-tui/internal/views/form"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
)

// LoadedMsg delivers the job list.
type LoadedMsg struct {
	Jobs []api.Job
	Err  error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m LoadedMsg) LoadErr() error { return m.Err }

// SavedMsg reports a create or update outcome.
type SavedMsg struct {
	Created bool
	Err     error
}

func (m SavedMsg) LoadErr() error { return m.Err }

// DeletedMsg reports a delete outcome.
type DeletedMsg struct{ Err error }

func (m DeletedMsg) LoadErr() error { return m.Err }

// Form field order.
const (
	fTitle = iota
	fType
	fDomain
	fState
	fEducation
	fAgeMin
	fAgeMax
	fLastDate
	fVacancy
	fLink
	fDescription
	fActive
	fFeatured
)

// Model holds the jobs screen state.
type Model struct {
	Width  int
	Height int

	client  *api.Client
	mode    mode
	jobs    []api.Job
	cursor  int
	loading bool
	errMsg  string

	form       form.Model
	editing    *api.Job
	confirming *api.Job
}

// New creates the jobs screen.
func New(client *api.Client) Model {
	return Model{client: client, loading: true}
}

// Capturing reports whether the screen is consuming raw key input, so the
// app must not treat keys as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Fetch returns the command loading the job list.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		jobs, err := client.ListJobs(100)
		return LoadedMsg{Jobs: jobs, Err: err}
	}
}

// Update handles jobs screen messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to load jobs")
			return m, nil
		}
		m.errMsg = ""
		m.jobs = msg.Jobs
		if m.cursor >= len(m.jobs) {
			m.cursor = max(0, len(m.jobs)-1)
		}
		// A refresh can remove the posting a confirm prompt is aimed at,
		// for example when another operator deletes it first.
		if m.mode == modeConfirm && !m.confirmTargetPresent() {
			m.mode = modeList
			m.confirming = nil
		}
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to save job")
			return m, nil
		}
		m.mode = modeList
		m.editing = nil
		m.errMsg = ""
		return m, m.Fetch()

	case DeletedMsg:
		m.mode = modeList
		m.confirming = nil
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to delete job")
			return m, nil
		}
		m.errMsg = ""
		return m, m.Fetch()

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if len(m.jobs) > 0 {
			m.cursor = (m.cursor + 1) % len(m.jobs)
		}
	case "k", "up":
		if len(m.jobs) > 0 {
			m.cursor = (m.cursor - 1 + len(m.jobs)) % len(m.jobs)
		}
	case "r":
		m.loading = true
		return m, m.Fetch()
	case "n":
		m.editing = nil
		m.form = m.newForm(api.Job{JobType: "CENTRAL", Education: "10th", AgeMin: 18, AgeMax: 35, IsActive: true})
		m.mode = modeForm
	case "enter", "e":
		if len(m.jobs) > 0 {
			job := m.jobs[m.cursor]
			m.editing = &job
			m.form = m.newForm(job)
			m.mode = modeForm
		}
	case "d":
		if len(m.jobs) > 0 {
			job := m.jobs[m.cursor]
			m.confirming = &job
			m.mode = modeConfirm
		}
	}
	return m, nil
}

func (m Model) confirmTargetPresent() bool {
	if m.confirming == nil {
		return false
	}
	for _, job := range m.jobs {
		if job.ID == m.confirming.ID {
			return true
		}
	}
	return false
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.editing = nil
		m.errMsg = ""
		return m, nil
	case "ctrl+s":
		job, err := m.parseForm()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, m.save(job)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if m.confirming == nil {
			m.mode = modeList
			return m, nil
		}
		id := m.confirming.ID
		client := m.client
		return m, func() tea.Msg {
			return DeletedMsg{Err: client.DeleteJob(id)}
		}
	case "n", "esc":
		m.mode = modeList
		m.confirming = nil
	}
	return m, nil
}

func (m Model) newForm(job api.Job) form.Model {
	active, featured := "no", "no"
	if job.IsActive {
		active = "yes"
	}
	if job.IsFeatured {
		featured = "yes"
	}
	return form.New(
		form.Text("Title", "Constable Recruitment 2026", job.Title, 48),
		form.Toggle("Type", []string{"CENTRAL", "STATE"}, job.JobType),
		form.Text("Domain", "Police", job.Domain, 24),
		form.Text("State", "leave empty for central", job.State, 24),
		form.Text("Education", "10th", job.Education, 24),
		form.Text("Age min", "18", itoaOrEmpty(job.AgeMin), 8),
		form.Text("Age max", "35", itoaOrEmpty(job.AgeMax), 8),
		form.Text("Last date", "2026-12-31", job.LastDate, 16),
		form.Text("Vacancies", "", itoaOrEmpty(job.VacancyCount), 8),
		form.Text("Application link", "https://", job.ApplicationLink, 48),
		form.Text("Description", "", job.Description, 64),
		form.Toggle("Active", []string{"yes", "no"}, active),
		form.Toggle("Featured", []string{"yes", "no"}, featured),
	)
}

func (m Model) parseForm() (api.Job, error) {
	var job api.Job
	if m.editing != nil {
		job = *m.editing
	}
	job.Title = m.form.Value(fTitle)
	if job.Title == "" {
		return job, fmt.Errorf("title is required")
	}
	job.JobType = m.form.Option(fType)
	job.Domain = m.form.Value(fDomain)
	job.State = m.form.Value(fState)
	job.Education = m.form.Value(fEducation)

	var err error
	if job.AgeMin, err = atoiField(m.form.Value(fAgeMin), "age min"); err != nil {
		return job, err
	}
	if job.AgeMax, err = atoiField(m.form.Value(fAgeMax), "age max"); err != nil {
		return job, err
	}
	if job.AgeMin > job.AgeMax {
		return job, fmt.Errorf("age min must not exceed age max")
	}
	job.LastDate = m.form.Value(fLastDate)
	if v := m.form.Value(fVacancy); v != "" {
		if job.VacancyCount, err = atoiField(v, "vacancies"); err != nil {
			return job, err
		}
	}
	job.ApplicationLink = m.form.Value(fLink)
	job.Description = m.form.Value(fDescription)
	job.IsActive = m.form.Option(fActive) == "yes"
	job.IsFeatured = m.form.Option(fFeatured) == "yes"
	return job, nil
}

func (m Model) save(job api.Job) tea.Cmd {
	client := m.client
	editing := m.editing
	return func() tea.Msg {
		if editing != nil {
			return SavedMsg{Err: client.UpdateJob(editing.ID, job)}
		}
		_, err := client.CreateJob(job)
		return SavedMsg{Created: true, Err: err}
	}
}

// View renders the jobs screen.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Jobs")

	switch m.mode {
	case modeForm:
		title := "  New job"
		if m.editing != nil {
			title = "  Edit job"
		}
		lines := []string{theme.StyleHeader.Render(title), m.form.View()}
		if m.errMsg != "" {
			lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case modeConfirm:
		if m.confirming != nil {
			return lipgloss.JoinVertical(lipgloss.Left,
				header,
				theme.StyleError.Render(fmt.Sprintf("  Delete %q? (y/n)", m.confirming.Title)),
			)
		}
	}

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  Loading..."))
	}

	lines := []string{
		header,
		theme.StyleDimmed.Render(fmt.Sprintf("  %-36s %-4s %-14s %-10s %-12s %s",
			"Title", "Type", "State", "Education", "Last date", "Status")),
	}
	if len(m.jobs) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No jobs"))
	}
	for i, job := range m.jobs {
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
		}
		status := lipgloss.NewStyle().Foreground(theme.ActiveColor(job.IsActive)).Render(activeLabel(job.IsActive))
		if job.IsFeatured {
			status += lipgloss.NewStyle().Foreground(theme.ColorFeatured).Render(" ★")
		}
		lines = append(lines, fmt.Sprintf("%s%-36s %s %-14s %-10s %-12s %s",
			prefix, truncate(job.Title, 36), theme.ScopeBadge(job.JobType),
			truncate(job.State, 14), truncate(job.Education, 10), job.LastDate, status))
	}
	if m.errMsg != "" {
		lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
	}
	lines = append(lines, theme.StyleDimmed.Render("  j/k:navigate  n:new  e:edit  d:delete  r:refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func atoiField(s, label string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", label)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", label)
	}
	return n, nil
}
