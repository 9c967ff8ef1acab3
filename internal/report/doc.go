// Package report renders export run reports: the EXPORT_SUMMARY.txt file
// written into every export folder, plus terminal output in plain text,
// Markdown, and JSON.
package report
