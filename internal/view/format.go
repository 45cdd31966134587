package view

import "strconv"

// HistoryID is the element the history SSE stream replaces.
const HistoryID = "history"

// HistoryListID is the list holding the history entries.
const HistoryListID = "history-list"

// refreshHistoryAction asks the server to stream the full history again.
const refreshHistoryAction = "@get('/history')"

// formatScore renders a confidence with two decimals.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
