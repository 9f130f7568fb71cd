// Package report renders a finished interview into an HTML document.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ContentType is the media type of rendered reports.
const ContentType = "text/html; charset=utf-8"

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown builds the report source for a session and its transcript.
func Markdown(session *domain.Session, transcript []domain.TranscriptEntry) string {
	var sb strings.Builder
	sb.WriteString("# Interview Report\n\n")

	sb.WriteString("| Field | Value |\n|---|---|\n")
	row := func(k, v string) {
		fmt.Fprintf(&sb, "| %s | %s |\n", k, cell(v))
	}
	row("Interview Title", session.Title)
	if session.Student != nil {
		row("Student Name", session.Student.Name)
		row("Student Email", session.Student.Email)
	}
	if session.Interviewer != nil {
		row("Interviewer", session.Interviewer.Name)
	}
	row("Date", session.ScheduledAt.Format("2006-01-02 15:04:05"))
	row("Duration", fmt.Sprintf("%d minutes", session.DurationMinutes))
	row("Status", strings.ToUpper(string(session.Status)))

	sb.WriteString("\n## Interview Conversation\n\n")
	if len(transcript) == 0 {
		sb.WriteString("*No conversation recorded*\n")
	}
	for _, e := range transcript {
		label := "AI Interviewer"
		if e.Speaker == domain.SpeakerRespondent {
			label = "Student"
		}
		fmt.Fprintf(&sb, "**%s** *%s*\n\n", label, e.Timestamp.Format("15:04:05"))
		for _, line := range strings.Split(strings.TrimSpace(e.Message), "\n") {
			fmt.Fprintf(&sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Interview Questions\n\n")
	if len(session.Questions) == 0 {
		sb.WriteString("*No questions configured*\n")
	}
	for i, q := range session.Questions {
		fmt.Fprintf(&sb, "**Q%d:** %s\n\n", i+1, q.Text)
		if q.Category != "" {
			fmt.Fprintf(&sb, "*Category: %s*\n\n", q.Category)
		}
		fmt.Fprintf(&sb, "*Difficulty: %s*\n\n", strings.ToUpper(string(q.Difficulty)))
	}
	return sb.String()
}

// Render converts the report to HTML.
func Render(session *domain.Session, transcript []domain.TranscriptEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Interview Report</title></head><body>\n")
	if err := md.Convert([]byte(Markdown(session, transcript)), &buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}

func cell(v string) string {
	v = strings.ReplaceAll(v, "|", "\\|")
	return strings.ReplaceAll(v, "\n", " ")
}
