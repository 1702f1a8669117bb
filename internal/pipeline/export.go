package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"inventox/internal"
	"inventox/internal/util"
)

// OutputPaths resolves where the spreadsheet and the delimited-text copy go. With no
// explicit output the spreadsheet sits next to the input as <stem><suffix><ext>. A
// spreadsheet path without an xlsx-family extension is given ".xlsx", and the text
// copy swaps that extension for csvExt.
func OutputPaths(input, output, suffix, csvExt string) internal.OutputFiles {
	if strings.TrimSpace(output) == "" {
		ext := filepath.Ext(input)
		stem := strings.TrimSuffix(filepath.Base(input), ext)
		output = filepath.Join(filepath.Dir(input), stem+suffix+ext)
	}

	spreadsheet := output
	if ext := filepath.Ext(output); !slices.Contains(xlsxExts, strings.ToLower(ext)) {
		spreadsheet = strings.TrimSuffix(output, ext) + ".xlsx"
	}
	csvPath := strings.TrimSuffix(spreadsheet, filepath.Ext(spreadsheet)) + csvExt
	return internal.OutputFiles{Spreadsheet: spreadsheet, CSV: csvPath}
}

// CheckOutputPaths refuses output locations that would replace the input or each
// other, since writes rename over whatever is already there.
func CheckOutputPaths(input string, out internal.OutputFiles) error {
	in := absPath(input)
	spreadsheet, csvPath := absPath(out.Spreadsheet), absPath(out.CSV)
	switch {
	case spreadsheet == in:
		return writeFailure(out.Spreadsheet, errors.New("output would overwrite the input file"))
	case csvPath == in:
		return writeFailure(out.CSV, errors.New("csv output would overwrite the input file"))
	case csvPath == spreadsheet:
		return writeFailure(out.CSV, errors.New("csv output would overwrite the spreadsheet output"))
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// WriteXLSX writes a header row and the data rows with no index column. Numeric
// columns are stored as numbers except those named in textColumns.
func WriteXLSX(t internal.Table, outputPath string, textColumns ...string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return writeFailure(outputPath, err)
		}
	}

	kinds := ColumnKinds(t)
	for c, h := range t.Columns {
		if slices.Contains(textColumns, h) {
			kinds[c] = internal.KindText
		}
	}

	for i, row := range t.Rows {
		r := i + 2
		for c, v := range row {
			if !v.Valid {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			var value any = v.Value
			if kinds[c] == internal.KindNumeric {
				if n, ok := util.ParseNumber(v.Value); ok {
					value = n
				}
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return writeFailure(outputPath, err)
			}
		}
	}

	return writeAtomic(outputPath, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

// WriteCSV writes UTF-8 with a byte-order mark so spreadsheet applications pick the
// right encoding. Null cells become empty fields.
func WriteCSV(t internal.Table, outputPath string, delimiter rune) error {
	return writeAtomic(outputPath, func(w io.Writer) error {
		enc := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		cw := csv.NewWriter(enc)
		cw.Comma = delimiter

		if err := cw.Write(t.Columns); err != nil {
			return err
		}
		record := make([]string, len(t.Columns))
		for _, row := range t.Rows {
			for c, v := range row {
				record[c] = v.Value
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		return enc.Close()
	})
}

// writeAtomic writes into a temp file beside outputPath and renames it into place,
// so a failed write never leaves a partial output behind.
func writeAtomic(outputPath string, write func(io.Writer) error) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeFailure(outputPath, err)
	}
	tmp, err := os.CreateTemp(dir, ".prepare-*.tmp")
	if err != nil {
		return writeFailure(outputPath, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return writeFailure(outputPath, err)
	}
	if err := tmp.Close(); err != nil {
		return writeFailure(outputPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return writeFailure(outputPath, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return writeFailure(outputPath, err)
	}
	return nil
}
