// Package csvline splits a single line of comma-separated text into fields.
//
// Fields may be wrapped in double quotes, in which case commas inside the
// quoted region are literal and a doubled quote ("") decodes to one quote
// character:
//
//	csvline.Parse(`"Gasthaus ""Laternchen""",51.0020672,6.8521633`)
//	// []string{`Gasthaus "Laternchen"`, "51.0020672", "6.8521633"}
//
// The parser works on one already isolated line. Splitting input into lines
// is the caller's job, and quoted fields spanning several physical lines are
// not supported.
//
// Parse never fails. Unbalanced quotes are accepted and the accumulated text
// is returned as-is, so callers that need a fixed schema must validate the
// field count themselves.
//
// # Version
//
// Current version: 1.0.0
package csvline
