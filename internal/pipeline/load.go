package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"

	"inventox/internal"
	"inventox/internal/util"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

type LoadOptions struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string
	// Charset decodes delimited text that is not valid UTF-8.
	Charset string
}

// LoadTable reads a spreadsheet, delimited-text or HTML-table file into a Table.
// The first non-empty row is the header row.
func LoadTable(path string, opts LoadOptions) (internal.Table, internal.LoadReport, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return internal.Table{}, internal.LoadReport{}, notFound(path)
	}
	if err != nil {
		return internal.Table{}, internal.LoadReport{}, parseFailure(path, err)
	}
	if info.IsDir() {
		return internal.Table{}, internal.LoadReport{}, parseFailure(path, errors.New("path is a directory"))
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.Table{}, internal.LoadReport{}, parseFailure(path, err)
	}

	format, err := DetectFormat(path, blob)
	if err != nil {
		return internal.Table{}, internal.LoadReport{}, parseFailure(path, err)
	}
	var records [][]string
	report := internal.LoadReport{Format: format}
	switch format {
	case internal.FormatXLSX:
		records, report.Sheet, err = readXLSX(blob, opts.Sheet)
	case internal.FormatCSV:
		records, err = readCSV(blob, opts.Charset)
	case internal.FormatHTMLTable:
		records, err = readHTMLTable(blob)
	}
	if err != nil {
		return internal.Table{}, internal.LoadReport{}, parseFailure(path, err)
	}

	table, err := buildTable(records)
	if err != nil {
		return internal.Table{}, internal.LoadReport{}, parseFailure(path, err)
	}
	report.Rows = len(table.Rows)
	report.Columns = len(table.Columns)
	return table, report, nil
}

func readXLSX(content []byte, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", errors.New("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, "", fmt.Errorf("sheet %q not found; sheets: %s", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", err
	}
	return rows, sheet, nil
}

func readCSV(content []byte, fallbackCharset string) ([][]string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		decoded, err := decodeCharset(content, fallbackCharset)
		if err != nil {
			return nil, err
		}
		content = decoded
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = detectDelimiter(content)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func decodeCharset(content []byte, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("input is not valid UTF-8 and no fallback charset is configured")
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	return enc.NewDecoder().Bytes(content)
}

func readHTMLTable(content []byte) ([][]string, error) {
	r, err := charset.NewReader(bytes.NewReader(content), "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no <table> element")
	}
	out := [][]string{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		out = append(out, cells)
	})
	return out, nil
}

func buildTable(records [][]string) (internal.Table, error) {
	start := slices.IndexFunc(records, func(r []string) bool { return !isEmptyRecord(r) })
	if start < 0 {
		return internal.Table{}, errors.New("no header row")
	}

	width := 0
	for _, r := range records[start:] {
		width = max(width, len(r))
	}
	header := make([]string, width)
	copy(header, records[start])

	table := internal.Table{Columns: uniqueHeaders(header)}
	for _, r := range records[start+1:] {
		if isEmptyRecord(r) {
			continue
		}
		row := make(internal.Row, width)
		for i, v := range r {
			if v != "" {
				row[i] = internal.Text(v)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// uniqueHeaders names blank headers "Unnamed: <index>" and suffixes repeats with
// ".1", ".2", ... so every column can be addressed by name.
func uniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]struct{}{}
	for i, h := range raw {
		if util.IsBlank(h) {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; ; n++ {
			if _, dup := seen[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out
}

func isEmptyRecord(r []string) bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
