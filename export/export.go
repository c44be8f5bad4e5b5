// Package export writes scraped records to disk.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"vnscrape/article"
)

// DefaultFilename is used when no output path is configured.
const DefaultFilename = "vnexpress_articles.csv"

// Format selects the on-disk encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Header is the CSV header row.
var Header = []string{"Tiêu đề", "Thời gian", "Link"}

// utf8BOM lets spreadsheet tools detect UTF-8.
const utf8BOM = "\ufeff"

// ParseFormat maps a config value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Write replaces path with the given records. Any existing file is removed
// first; a failed write may leave a partial file behind.
func Write(path string, records []article.Record, format Format) error {
	if path == "" {
		path = DefaultFilename
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing old %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatYAML:
		err = WriteYAML(f, records)
	default:
		err = WriteCSV(f, records)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes a BOM, the header row and one row per record.
func WriteCSV(w io.Writer, records []article.Record) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Title, r.PublishTime, r.Link}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYAML writes the records as a YAML sequence keyed like the CSV header.
func WriteYAML(w io.Writer, records []article.Record) error {
	if records == nil {
		records = []article.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
