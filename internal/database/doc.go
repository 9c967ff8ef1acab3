// Package database provides SQLite-based persistence of export runs.
// Every run's report is stored so the history command can list and inspect
// past exports without the original folders.
package database
