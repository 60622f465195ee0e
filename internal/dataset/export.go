package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteCSV writes headers followed by one line per record, in header order.
func WriteCSV(w io.Writer, headers []string, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	row := make([]string, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			row[i] = rec.Get(h)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func WriteFile(filename string, headers []string, records []Record) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file %s: %w", filename, err)
	}

	if err := WriteCSV(file, headers, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Line renders a single record as one CSV line without the trailing newline.
func Line(headers []string, rec Record) (string, error) {
	var b strings.Builder
	writer := csv.NewWriter(&b)
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = rec.Get(h)
	}
	if err := writer.Write(row); err != nil {
		return "", err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\r\n"), nil
}
