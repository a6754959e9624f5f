package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/uploader"
	"golang.org/x/term"
)

// getTermSize is a test seam for term.GetSize.
var getTermSize = term.GetSize

func termWidth() int {
	w, _, err := getTermSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// columnsFor maps the terminal width to 1, 2 or 3 grid columns.
func columnsFor(width int) int {
	switch {
	case width >= 120:
		return 3
	case width >= 80:
		return 2
	default:
		return 1
	}
}

func renderCard(pos int, rec models.ImageRecord, width int) string {
	lines := []string{StyleTitle.Render(fmt.Sprintf("#%d", pos))}
	if rec.Caption != "" {
		lines = append(lines, StyleCaption.Render(rec.Caption))
	}
	lines = append(lines, StyleMuted.Render(rec.ID))
	if !rec.CreatedAt.IsZero() {
		lines = append(lines, StyleMuted.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	// border and padding take 4 cells
	return StyleCard.Width(width - 4).Render(strings.Join(lines, "\n"))
}

func renderGrid(images []models.ImageRecord, width int) string {
	if len(images) == 0 {
		return StyleMuted.Render("No images yet. Use 'add' and 'upload'.")
	}

	cols := columnsFor(width)
	cardWidth := max(width/cols-1, 20)

	rows := make([]string, 0, (len(images)+cols-1)/cols)
	for start := 0; start < len(images); start += cols {
		end := min(start+cols, len(images))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(i+1, images[i], cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderPending lists pending entries; sizes[i], when set, is shown next to
// entry i.
func renderPending(views []uploader.PendingView, sizes []string) string {
	if len(views) == 0 {
		return StyleMuted.Render("Nothing pending. Use 'add <path>' or 'watch <dir>'.")
	}

	var b strings.Builder
	for i, v := range views {
		caption := v.Caption
		if caption == "" {
			caption = StyleMuted.Render("(no caption)")
		}
		meta := fmt.Sprintf("%s, %d bytes", v.ContentType, v.Size)
		if i < len(sizes) && sizes[i] != "" {
			meta += ", " + sizes[i]
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			StyleTitle.Render(fmt.Sprintf("[%d]", v.Index+1)),
			v.Name,
			StyleMuted.Render(meta),
			caption)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLightbox(rec models.ImageRecord, details []string, width int) string {
	lines := []string{}
	if rec.Caption != "" {
		lines = append(lines, StyleCaption.Render(rec.Caption), "")
	}
	lines = append(lines, rec.URL)
	for _, d := range details {
		lines = append(lines, StyleMuted.Render(d))
	}
	lines = append(lines, "", StyleMuted.Render("edit <text> · delete · download [dir] · close"))

	return StyleLightbox.Width(max(width-6, 20)).Render(strings.Join(lines, "\n"))
}
