package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// CropMargins cuts top and bottom page margins before extraction, so page
// headers and footers do not end up inside chunks. top and bottom are in
// points (1 pt = 1/72 inch).
func CropMargins(inputPath, outputPath string, top, bottom float64) error {
	conf := api.LoadConfiguration()

	pages := []string{"1-"}

	cropStr := fmt.Sprintf("%.2f 0 %.2f 0", top, bottom)
	box, err := model.ParseBox(cropStr, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to parse crop box: %w", err)
	}

	if err := api.CropFile(inputPath, outputPath, pages, box, conf); err != nil {
		return fmt.Errorf("failed to crop PDF: %w", err)
	}

	return nil
}

// ExtractText pulls the text of every page and concatenates it in page
// order, one newline between pages.
func ExtractText(path string) (string, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var sb strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", page, err)
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d content: %w", page, err)
		}
		sb.WriteString(contentText(data))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// contentText walks a decoded page content stream and collects the operands
// of the text-showing operators (Tj, TJ, ', "). Strings bound to any other
// operator are discarded, matching PDF's postfix operand order.
func contentText(data []byte) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			out.WriteString(s)
		}
		pending = pending[:0]
	}

	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == '(':
			s, next := parseLiteralString(data, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] != '<':
			s, next := parseHexString(data, i)
			pending = append(pending, s)
			i = next
		case c == '[' || c == ']' || c == '{' || c == '}':
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case isRegular(c) && !isNumeric(c):
			start := i
			for i < len(data) && isRegular(data[i]) {
				i++
			}
			switch string(data[start:i]) {
			case "Tj", "TJ":
				flush()
				out.WriteByte(' ')
			case "'", "\"":
				flush()
				out.WriteByte('\n')
			case "T*", "Td", "TD", "ET":
				pending = pending[:0]
				out.WriteByte('\n')
			default:
				pending = pending[:0]
			}
		default:
			i++
		}
	}
	return out.String()
}

func isRegular(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

func isNumeric(c byte) bool {
	return (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
}

// parseLiteralString reads a PDF literal string starting at the opening
// parenthesis, resolving escapes and balanced nested parentheses.
func parseLiteralString(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			if i+1 >= len(data) {
				return sb.String(), i + 1
			}
			i++
			switch data[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '(', ')', '\\':
				sb.WriteByte(data[i])
			case '\n':
			default:
				if data[i] >= '0' && data[i] <= '7' {
					val := 0
					for n := 0; n < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7'; n++ {
						val = val*8 + int(data[i]-'0')
						i++
					}
					i--
					sb.WriteByte(byte(val))
				}
			}
			i++
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// parseHexString reads a <...> hex string starting at the opening bracket.
func parseHexString(data []byte, start int) (string, int) {
	var sb strings.Builder
	var hi, have = byte(0), false
	i := start + 1
	for i < len(data) && data[i] != '>' {
		v, ok := hexVal(data[i])
		if ok {
			if have {
				sb.WriteByte(hi<<4 | v)
				have = false
			} else {
				hi, have = v, true
			}
		}
		i++
	}
	if have {
		sb.WriteByte(hi << 4)
	}
	if i < len(data) {
		i++ // consume '>'
	}
	return sb.String(), i
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
