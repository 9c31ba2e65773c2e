package server

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/commonseek/internal/commons"
)

const truncationNotice = "\n[response truncated]"

// formatPage renders the listing text part of a tool response. The 1-based
// item numbers match the labels painted onto the composite grid.
func formatPage(query string, page *commons.SearchResultPage, offset, textLimit int) string {
	if len(page.Images) == 0 {
		return fmt.Sprintf("No images found for %q. Try a broader or different search term.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d images for %q (results %d-%d):\n",
		len(page.Images), query, offset+1, offset+len(page.Images))

	for i, rec := range page.Images {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, recordHeading(rec))
		fmt.Fprintf(&b, "   %dx%d (%s)", rec.Width, rec.Height, rec.AspectRatio)
		if rec.Size > 0 {
			fmt.Fprintf(&b, ", %s", humanSize(rec.Size))
		}
		b.WriteString("\n")
		if rec.License != nil {
			writeField(&b, "License", licenseLine(rec.License))
		}
		writeField(&b, "Artist", rec.Artist)
		writeField(&b, "Credit", rec.Credit)
		writeField(&b, "Date", rec.Date)
		writeField(&b, "Description", rec.Description)
		writeField(&b, "Thumbnail", rec.URL)
		writeField(&b, "Details", rec.DescriptionURL)
	}

	if page.HasMore {
		fmt.Fprintf(&b, "\nMore results are available. Pass offset=%d to fetch the next page.\n",
			page.NextOffset)
	}

	text := b.String()
	if textLimit > 0 && len([]rune(text)) > textLimit {
		text = string([]rune(text)[:textLimit]) + truncationNotice
	}
	return text
}

func recordHeading(rec commons.ImageRecord) string {
	if rec.Caption != "" {
		return rec.Caption
	}
	if rec.Title != "" {
		return rec.Title
	}
	return fmt.Sprintf("Result %d", rec.Index+1)
}

func licenseLine(l *commons.License) string {
	parts := make([]string, 0, 3)
	if l.Name != "" {
		parts = append(parts, l.Name)
	}
	if l.UsageTerms != "" && l.UsageTerms != l.Name {
		parts = append(parts, l.UsageTerms)
	}
	if l.URL != "" {
		parts = append(parts, l.URL)
	}
	return strings.Join(parts, " - ")
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "   %s: %s\n", name, value)
}

// humanSize renders a byte count in the nearest binary unit.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
