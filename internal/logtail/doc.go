// Package logtail reads the tail of discografia's own log file for the log
// view.
//
// # Reading
//
// Read extracts the last maxLines from a file with a ring buffer of size
// maxLines, so memory stays O(maxLines) regardless of file size:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file, store it at the current index and advance
//	3. Return the buffer starting from the oldest line
//
// A non-positive maxLines returns the whole file. A missing file returns
// nil, nil; the log file only exists once something has been logged.
//
// # Parsing
//
// The application logs with logrus' JSON formatter, one object per line.
// Parse splits such a line into time, level, message and the remaining
// fields. Lines that are not JSON (a panic trace, a hand-edited file) are
// kept verbatim as the message. Parsing never fails.
//
// Colors are applied by the ui package, which owns the theme.
package logtail
