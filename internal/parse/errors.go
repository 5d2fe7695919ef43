package parse

import "fmt"

// FileError is returned when the export cannot be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read export %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// FormatError is returned when the leading sample of the input contains no
// message start line.
type FormatError struct {
	Reason  string
	Checked int
}

func (e *FormatError) Error() string {
	if e.Checked == 0 {
		return "unsupported export format: " + e.Reason
	}
	return fmt.Sprintf("unsupported export format: %s (checked %d lines, expected \"DD/MM/YYYY, HH:MM - \" prefix)", e.Reason, e.Checked)
}

// ParseError is returned when a line violates the confirmed format.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse export: %v", e.Err)
	}
	return fmt.Sprintf("parse export line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
