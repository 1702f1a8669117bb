package pipeline

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"inventox/internal"
)

var (
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	xlsxExts     = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}
)

const htmlSniffLen = 64 * 1024

// DetectFormat picks a reader from the file extension and the leading bytes.
// Accounting tools often save HTML tables under .xls, so .xls is accepted only
// when the content really is HTML; a binary .xls workbook is rejected.
func DetectFormat(path string, blob []byte) (internal.SourceFormat, error) {
	if bytes.HasPrefix(blob, oleSignature) {
		return "", errors.New("legacy binary workbook is not supported; save it as .xlsx")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(xlsxExts, ext):
		return internal.FormatXLSX, nil
	case ext == ".csv" || ext == ".txt":
		return internal.FormatCSV, nil
	case (ext == ".xls" || ext == ".htm" || ext == ".html") && looksLikeHTMLTable(blob):
		return internal.FormatHTMLTable, nil
	}
	return "", fmt.Errorf("unsupported file type %q", ext)
}

func looksLikeHTMLTable(content []byte) bool {
	head := content
	if len(head) > htmlSniffLen {
		head = head[:htmlSniffLen]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<table"))
}

// detectDelimiter looks at the header line only: ';' when it has semicolons and no
// commas, tab when it has tabs and neither of the others, ',' otherwise.
func detectDelimiter(content []byte) rune {
	line, _, _ := bytes.Cut(content, []byte("\n"))
	hasComma := bytes.ContainsRune(line, ',')
	hasSemicolon := bytes.ContainsRune(line, ';')
	switch {
	case hasSemicolon && !hasComma:
		return ';'
	case !hasComma && !hasSemicolon && bytes.ContainsRune(line, '\t'):
		return '\t'
	default:
		return ','
	}
}
