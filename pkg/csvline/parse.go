package csvline

import "strings"

const (
	quote = '"'
	comma = ','
)

// Parse returns the comma-separated fields of line in order.
//
// The result always holds at least one field; an empty line yields a single
// empty field. The number of fields is one more than the number of commas
// found outside quoted regions.
func Parse(line string) []string {
	fields := make([]string, 0, Count(line))
	var field strings.Builder
	inQuotes := false

	// '"' and ',' are ASCII, so walking bytes never splits a UTF-8 sequence.
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			if inQuotes && i+1 < len(line) && line[i+1] == quote {
				field.WriteByte(quote)
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == comma && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, field.String())
}

// Count returns the number of fields Parse would return for line without
// building them.
func Count(line string) int {
	n := 1
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case quote:
			if inQuotes && i+1 < len(line) && line[i+1] == quote {
				i++
				continue
			}
			inQuotes = !inQuotes
		case comma:
			if !inQuotes {
				n++
			}
		}
	}
	return n
}
