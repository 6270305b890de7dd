// package formatter exports collection listings and reports to CSV, Markdown,
// and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/crate/internal/models"
)

// orEmpty renders a nullable text column for display.
func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatPrice renders a nullable price with two decimals.
func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// formatYear renders a nullable release year.
func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

// ExportToCSV converts record views to CSV with columns: ID, Title, Artist,
// Genre, Year, Condition, Price, Purchase Date, Stores
func ExportToCSV(views []models.RecordView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Year", "Condition", "Price", "Purchase Date", "Stores"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, view := range views {
		row := []string{
			strconv.FormatInt(view.RecordID, 10),
			view.Title,
			orEmpty(view.Artist),
			orEmpty(view.Genre),
			formatYear(view.Year),
			orEmpty(view.Condition),
			formatPrice(view.Price),
			orEmpty(view.PurchaseDate),
			orEmpty(view.Store),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts record views to a plain text listing
func ExportToText(views []models.RecordView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Records: %d\n\n", len(views)))

	for i, view := range views {
		artist := orEmpty(view.Artist)
		if artist == "" {
			artist = "Unknown Artist"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s", i+1, artist, view.Title))
		if view.Year != nil {
			buf.WriteString(fmt.Sprintf(" (%d)", *view.Year))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a collection report to Markdown with a summary
// section, a per-artist breakdown table, and the matching rows
func ExportToMarkdown(report *models.Report, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Collection Report"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString("## Summary\n\n")
	buf.WriteString(fmt.Sprintf("**Records**: %d\n", report.Stats.Count))
	if report.Stats.AvgPrice != nil {
		buf.WriteString(fmt.Sprintf("**Average price**: %.2f\n", *report.Stats.AvgPrice))
	}
	if report.Stats.MinPrice != nil && report.Stats.MaxPrice != nil {
		buf.WriteString(fmt.Sprintf("**Price range**: %.2f - %.2f\n", *report.Stats.MinPrice, *report.Stats.MaxPrice))
	}
	if report.Stats.AvgYear != nil {
		buf.WriteString(fmt.Sprintf("**Average year**: %.0f\n", *report.Stats.AvgYear))
	}
	buf.WriteString("\n")

	if len(report.ByArtist) > 0 {
		buf.WriteString("## By Artist\n\n")
		buf.WriteString("| Artist | Records |\n")
		buf.WriteString("| --- | --- |\n")
		for _, stat := range report.ByArtist {
			name := orEmpty(stat.Name)
			if name == "" {
				name = "Unknown Artist"
			}
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", name, stat.Count))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Records\n\n")
	for i, view := range report.Rows {
		artist := orEmpty(view.Artist)
		if artist == "" {
			artist = "Unknown Artist"
		}
		genrePart := ""
		if view.Genre != nil {
			genrePart = fmt.Sprintf(" (%s)", *view.Genre)
		}
		pricePart := ""
		if view.Price != nil {
			pricePart = fmt.Sprintf(" [%.2f]", *view.Price)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, artist, view.Title, genrePart, pricePart))
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes a record listing to a CSV file.
//
// Defaults to records.csv when filepath is empty.
func WriteCSVExport(views []models.RecordView, filepath string) (string, error) {
	if filepath == "" {
		filepath = "records.csv"
	}

	csvData, err := ExportToCSV(views)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes a record listing to a plain text file.
//
// Defaults to records.txt when filepath is empty.
func WriteTextExport(views []models.RecordView, filepath string) (string, error) {
	if filepath == "" {
		filepath = "records.txt"
	}

	textData, err := ExportToText(views)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteMarkdownReport writes a collection report to a Markdown file.
//
// Defaults to report.md when filepath is empty.
func WriteMarkdownReport(report *models.Report, title, filepath string) (string, error) {
	if filepath == "" {
		filepath = "report.md"
	}

	mdData, err := ExportToMarkdown(report, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}
