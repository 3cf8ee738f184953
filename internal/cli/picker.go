package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	schedio "github.com/matzehuels/schedulator/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FileListModel - Interactive task file selection
// =============================================================================

// FileListModel is the bubbletea model for picking a task file.
// Typing narrows the list; characters must appear in order in the name.
type FileListModel struct {
	Files    []string
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

// NewFileListModel creates a new file list model.
func NewFileListModel(files []string) FileListModel {
	return FileListModel{Files: files, Height: 15}
}

func (m FileListModel) Init() tea.Cmd {
	return nil
}

func (m FileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		visible := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1)
		case tea.KeyDown:
			m.moveCursor(1)
		case tea.KeyEnter:
			if len(visible) > 0 {
				m.Selected = visible[m.Cursor]
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m *FileListModel) moveCursor(delta int) {
	n := len(m.visible())
	m.Cursor = min(max(m.Cursor+delta, 0), max(n-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// visible returns the files matching the current filter.
func (m FileListModel) visible() []string {
	if m.Filter == "" {
		return m.Files
	}
	var out []string
	for _, f := range m.Files {
		if subsequence(strings.ToLower(m.Filter), strings.ToLower(f)) {
			out = append(out, f)
		}
	}
	return out
}

func (m FileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Task File"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc quit  type to filter"))
	b.WriteString("\n")
	b.WriteString(listNormalStyle.Render("> " + m.Filter))
	b.WriteString("\n\n")

	visible := m.visible()
	end := min(m.Offset+m.Height, len(visible))

	var rows [][]string
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, visible[i], string(schedio.DetectFormat(visible[i]))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Format").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(visible)), len(visible))))

	return b.String()
}

// subsequence reports whether every rune of pattern appears in s in order.
func subsequence(pattern, s string) bool {
	r := []rune(pattern)
	i := 0
	for _, c := range s {
		if i < len(r) && c == r[i] {
			i++
		}
	}
	return i == len(r)
}

// taskFiles lists files under dir with a recognized task file extension,
// relative to dir and sorted.
func taskFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".tasks", ".toml", ".json", ".yaml", ".yml":
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

// pickFile runs the interactive picker over dir and returns the chosen path,
// or "" when the user quits.
func pickFile(dir string) (string, error) {
	files, err := taskFiles(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no task files in %s", dir)
	}

	final, err := tea.NewProgram(NewFileListModel(files)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(FileListModel)
	if !ok || m.Selected == "" {
		return "", nil
	}
	return filepath.Join(dir, m.Selected), nil
}
