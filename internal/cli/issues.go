package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goalgraph/goalgraph/pkg/analysis"
	"github.com/goalgraph/goalgraph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newIssuesCmd creates the issues command, an interactive issue browser.
func newIssuesCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "issues [snapshot.json]",
		Short: "Browse structural issues interactively",
		Long: `Browse structural issues interactively.

Lists every detected issue (circular dependency groups, mutual pairs,
self-references, roots, leaves) with the goals involved. Use --plain for
non-interactive output suitable for scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssues(cmd.Context(), args[0], plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print issues without the interactive browser")

	return cmd
}

func runIssues(ctx context.Context, input string, plain bool) error {
	snap, err := graph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	g := snap.Build()
	report := analysis.Analyze(g)

	rows := buildIssueRows(g, report)
	if len(rows) == 0 {
		printSuccess("No structural issues found")
		return nil
	}

	if plain {
		for _, row := range rows {
			printInfo("%s: %s", row.category, row.summary)
		}
		return nil
	}

	model := newIssueListModel(rows)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// issueRow is one browsable issue instance.
type issueRow struct {
	category analysis.Category
	summary  string
	members  []string // goal labels, one per line in the detail pane
}

// buildIssueRows flattens a report into displayable rows, most severe first.
func buildIssueRows(g *graph.Graph, r analysis.Report) []issueRow {
	var rows []issueRow

	for _, cycle := range r.Cycles {
		rows = append(rows, issueRow{
			category: analysis.CategoryCycle,
			summary:  fmt.Sprintf("%d goals in a circular dependency", len(cycle)),
			members:  memberLabels(g, cycle),
		})
	}
	for _, id := range r.SelfLoops {
		rows = append(rows, issueRow{
			category: analysis.CategoryCycle,
			summary:  goalLabel(g, id) + " references itself",
			members:  memberLabels(g, []int64{id}),
		})
	}
	for _, p := range r.MutualPairs {
		rows = append(rows, issueRow{
			category: analysis.CategoryMutual,
			summary:  goalLabel(g, p.A) + " and " + goalLabel(g, p.B) + " contain each other",
			members:  memberLabels(g, []int64{p.A, p.B}),
		})
	}
	for _, id := range r.Roots {
		rows = append(rows, issueRow{
			category: analysis.CategoryRoot,
			summary:  goalLabel(g, id) + " has no parent",
			members:  memberLabels(g, []int64{id}),
		})
	}
	for _, id := range r.Leaves {
		rows = append(rows, issueRow{
			category: analysis.CategoryLeaf,
			summary:  goalLabel(g, id) + " has no children",
			members:  memberLabels(g, []int64{id}),
		})
	}
	return rows
}

func memberLabels(g *graph.Graph, ids []int64) []string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		label := goalLabel(g, id)
		if n := g.Node(id); n != nil {
			label += listDimStyle.Render(" " + string(n.Kind))
		}
		labels[i] = label
	}
	return labels
}

// =============================================================================
// IssueListModel - Interactive issue browser
// =============================================================================

// IssueListModel is the bubbletea model for browsing issues.
type IssueListModel struct {
	Rows   []issueRow
	Cursor int
	Height int
	Offset int
}

func newIssueListModel(rows []issueRow) IssueListModel {
	return IssueListModel{Rows: rows, Height: 15}
}

func (m IssueListModel) Init() tea.Cmd {
	return nil
}

func (m IssueListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m IssueListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Structural Issues"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-7s %s", cursor, categoryBadge(row.category), row.summary)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Rows) > 0 {
		selected := m.Rows[m.Cursor]
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
		b.WriteString("\n")
		for _, member := range selected.members {
			b.WriteString("  " + member + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func categoryBadge(c analysis.Category) string {
	switch c {
	case analysis.CategoryCycle:
		return styleIconError.Render(string(c))
	case analysis.CategoryMutual:
		return styleIconWarning.Render(string(c))
	default:
		return styleIconInfo.Render(string(c))
	}
}
