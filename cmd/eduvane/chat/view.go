package chat

import (
	"fmt"
	"strings"

	"eduvane/internal/types"
)

func (m Model) View() string {
	if !m.ready {
		return "Starting Eduvane..."
	}

	var b strings.Builder

	title := m.styles.Title.Render("Eduvane")
	if m.guest {
		title += " " + m.styles.Muted.Render("(guest)")
	}
	b.WriteString(title + "\n\n")

	b.WriteString(m.viewport.View() + "\n")

	if m.isLoading {
		b.WriteString(m.spinner.View() + " " + m.styles.Phase.Render(phaseLabel(m.phase)) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.styles.InputBox.Render(m.textarea.View()) + "\n")
	b.WriteString(m.styles.Help.Render("enter: send • /help: commands • esc: quit"))

	return b.String()
}

func phaseLabel(phase types.AnalysisPhase) string {
	switch phase {
	case types.PhaseProcessing:
		return "Analyzing the work..."
	case types.PhaseComplete:
		return "Done."
	case types.PhaseError:
		return "Something went wrong."
	default:
		return "Thinking..."
	}
}

// refreshViewport re-renders the transcript into the viewport and keeps
// it pinned to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, msg := range m.history {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	if m.streaming != "" {
		b.WriteString(m.styles.BotLabel.Render("Eduvane") + "\n")
		b.WriteString(m.renderMarkdown(m.streaming))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg Message) string {
	switch msg.Kind {
	case msgUser:
		return m.styles.UserLabel.Render("You") + "\n" + msg.Content + "\n"
	case msgAssistant:
		return m.styles.BotLabel.Render("Eduvane") + "\n" + m.renderMarkdown(msg.Content) + "\n"
	case msgSubmission:
		return m.styles.ScoreCard.Render(m.renderMarkdown(msg.Content)) + "\n"
	case msgFollowUp:
		return m.styles.FollowUp.Render(msg.Content) + "\n"
	case msgError:
		return m.styles.Error.Render("! "+msg.Content) + "\n"
	default:
		return m.styles.Muted.Render(msg.Content) + "\n"
	}
}

func (m *Model) renderMarkdown(s string) string {
	if m.renderer == nil {
		return s
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}

// renderResult formats a completed analysis as markdown for the
// transcript card.
func renderResult(r *types.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s: %s\n\n", r.Score.Value, r.Score.Label)
	if r.Score.Reasoning != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Score.Reasoning)
	}
	if r.Subject != "" || r.Topic != "" {
		fmt.Fprintf(&b, "*%s*\n\n", strings.TrimSpace(r.Subject+" / "+r.Topic))
	}

	if len(r.Feedback) > 0 {
		b.WriteString("### Feedback\n")
		for _, f := range r.Feedback {
			marker := "•"
			switch f.Type {
			case "strength":
				marker = "+"
			case "gap":
				marker = "−"
			}
			fmt.Fprintf(&b, "- %s %s\n", marker, f.Text)
		}
		b.WriteString("\n")
	}

	if r.Handwriting != nil && r.Handwriting.Feedback != "" {
		fmt.Fprintf(&b, "### Handwriting (%s)\n%s\n\n", r.Handwriting.Quality, r.Handwriting.Feedback)
	}

	if len(r.Guidance) > 0 {
		b.WriteString("### Next Steps\n")
		for i, g := range r.Guidance {
			fmt.Fprintf(&b, "%d. %s\n", i+1, g.Step)
		}
		b.WriteString("\n")
	}

	if len(r.Insights) > 0 {
		b.WriteString("### Insights\n")
		for _, in := range r.Insights {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", in.Title, in.Trend, in.Description)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
