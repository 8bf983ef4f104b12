// =============================================================================
// Sales Analytics - Sales File Reader
// =============================================================================
//
// This module reads the raw sales export and hands back its data lines.
// Exports come from different tills and spreadsheets, so the reader:
//   - Detects the encoding (UTF-8, falling back to Latin-1)
//   - Strips a UTF-8 byte order mark
//   - Skips the header line
//   - Trims every line and drops blank ones
//
// The whole file is loaded into memory; a run always works on the complete
// dataset.
//
// =============================================================================

package salesfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/sales-analytics/internal/common"
)

// Supported encoding names.
const (
	EncodingAuto   = "auto"
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
	EncodingCP1252 = "cp1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadLines reads a sales file and returns its data lines.
//
// PARAMETERS:
//   - filePath: The path to the sales file.
//   - encodingName: One of the Encoding* constants. Empty means auto.
//
// RETURNS:
//   - The trimmed, non-empty lines after the header.
//   - An error wrapping common.ErrMissingSource if the file does not exist,
//     or a read/decode error.
func ReadLines(filePath, encodingName string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrMissingSource, filePath, err)
		}
		return nil, fmt.Errorf("failed to read sales file: %w", err)
	}

	text, err := decode(data, encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sales file: %w", err)
	}

	return splitDataLines(text)
}

// decode converts raw file bytes to a UTF-8 string.
func decode(data []byte, encodingName string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	name := strings.ToLower(strings.TrimSpace(encodingName))
	if name == "" || name == EncodingAuto {
		if utf8.Valid(data) {
			return string(data), nil
		}
		// Latin-1 maps every byte, so it never fails.
		name = EncodingLatin1
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// lookupEncoding maps an encoding name to its decoder.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch name {
	case EncodingUTF8, "utf8":
		return unicode.UTF8, nil
	case EncodingLatin1, "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case EncodingCP1252, "windows-1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}

// splitDataLines drops the header line, trims the rest and removes blank lines.
func splitDataLines(text string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sales file: %w", err)
	}

	return lines, nil
}
