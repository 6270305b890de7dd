package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/crate/internal/models"
	th "github.com/desertthunder/crate/internal/testing"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func sampleViews() []models.RecordView {
	return []models.RecordView{
		{
			RecordID:     1,
			Title:        "Kind of Blue",
			Artist:       strPtr("Miles Davis"),
			Genre:        strPtr("Jazz"),
			Store:        strPtr("Groove Merchant"),
			Year:         intPtr(1959),
			Condition:    strPtr("VG+"),
			Price:        floatPtr(24.99),
			PurchaseDate: strPtr("2023-06-15"),
		},
		{
			RecordID: 2,
			Title:    "Untitled Demo",
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleViews())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artist,Genre,Year,Condition,Price,Purchase Date,Stores") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Kind of Blue") {
			t.Errorf("CSV missing record title")
		}
		if !strings.Contains(output, "Miles Davis") {
			t.Errorf("CSV missing artist")
		}
		if !strings.Contains(output, "24.99") {
			t.Errorf("CSV missing price")
		}
		if !strings.Contains(output, "2,Untitled Demo,,,,,,,") {
			t.Errorf("CSV should render missing fields as empty columns, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleViews())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Records: 2") {
			t.Errorf("Text missing record count")
		}
		if !strings.Contains(output, "1. Miles Davis - Kind of Blue (1959)") {
			t.Errorf("Text missing first record, got: %s", output)
		}
		if !strings.Contains(output, "2. Unknown Artist - Untitled Demo") {
			t.Errorf("Text should fall back to Unknown Artist")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		report := &models.Report{
			Rows: sampleViews(),
			Stats: models.ReportStats{
				Count:    2,
				AvgPrice: floatPtr(24.99),
				MinPrice: floatPtr(24.99),
				MaxPrice: floatPtr(24.99),
				AvgYear:  floatPtr(1959),
			},
			ByArtist: []models.ArtistStat{
				{ArtistID: nil, Name: strPtr("Miles Davis"), Count: 1, AvgPrice: floatPtr(24.99)},
			},
		}

		t.Run("with default title", func(t *testing.T) {
			data, err := ExportToMarkdown(report, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# Collection Report") {
				t.Errorf("Markdown missing default title")
			}
			if !strings.Contains(output, "**Records**: 2") {
				t.Errorf("Markdown missing record count")
			}
			if !strings.Contains(output, "**Average price**: 24.99") {
				t.Errorf("Markdown missing average price")
			}
			if !strings.Contains(output, "**Average year**: 1959") {
				t.Errorf("Markdown missing average year")
			}
			if !strings.Contains(output, "| Miles Davis | 1 |") {
				t.Errorf("Markdown missing by-artist row, got: %s", output)
			}
			if !strings.Contains(output, "1. Miles Davis - Kind of Blue (Jazz) [24.99]") {
				t.Errorf("Markdown missing record line, got: %s", output)
			}
		})

		t.Run("with custom title", func(t *testing.T) {
			data, err := ExportToMarkdown(report, "Jazz Purchases 2023")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			if !strings.Contains(string(data), "# Jazz Purchases 2023") {
				t.Errorf("Markdown missing custom title")
			}
		})
	})

	t.Run("EmptyReport", func(t *testing.T) {
		report := &models.Report{
			Rows:     []models.RecordView{},
			Stats:    models.ReportStats{Count: 0},
			ByArtist: []models.ArtistStat{},
		}

		data, err := ExportToMarkdown(report, "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "**Records**: 0") {
			t.Errorf("Markdown missing zero count")
		}
		if strings.Contains(output, "## By Artist") {
			t.Errorf("Markdown should omit by-artist table when empty")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteCSVExport(sampleViews(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if filepath != "records.csv" {
				t.Errorf("Expected 'records.csv', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)

			content := th.MustReadFile(t, filepath)
			if !strings.Contains(content, "Kind of Blue") {
				t.Errorf("CSV file missing record data")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteCSVExport(sampleViews(), "collection.csv")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if filepath != "collection.csv" {
				t.Errorf("Expected 'collection.csv', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		filepath, err := WriteTextExport(sampleViews(), "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		if filepath != "records.txt" {
			t.Errorf("Expected 'records.txt', got '%s'", filepath)
		}

		th.AssertFileExists(t, filepath)

		content := th.MustReadFile(t, filepath)
		if !strings.Contains(content, "Miles Davis - Kind of Blue") {
			t.Errorf("Text file missing record listing")
		}
	})

	t.Run("WriteMarkdownReport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		report := &models.Report{
			Rows:     sampleViews(),
			Stats:    models.ReportStats{Count: 2},
			ByArtist: []models.ArtistStat{},
		}

		filepath, err := WriteMarkdownReport(report, "", "")
		if err != nil {
			t.Fatalf("WriteMarkdownReport failed: %v", err)
		}

		if filepath != "report.md" {
			t.Errorf("Expected 'report.md', got '%s'", filepath)
		}

		th.AssertFileExists(t, filepath)

		content := th.MustReadFile(t, filepath)
		if !strings.Contains(content, "# Collection Report") {
			t.Errorf("Markdown file missing title")
		}
	})
}
