package service

import (
	"errors"
	"strings"

	"assignment-tracker/internal/model"
)

const (
	ExportFileName = "assignments.csv"
	ExportMIMEType = "text/csv"

	exportHeader = "Title,Category,Due Date,Priority,Completed,Created At"
)

// ErrNothingToExport signals an export request on an empty collection.
var ErrNothingToExport = errors.New("nothing to export")

// ExportCSV renders tasks in collection order.
func ExportCSV(tasks []model.Task) (string, error) {
	if len(tasks) == 0 {
		return "", ErrNothingToExport
	}

	rows := make([]string, 0, len(tasks)+1)
	rows = append(rows, exportHeader)
	for _, task := range tasks {
		completed := "No"
		if task.Completed {
			completed = "Yes"
		}
		rows = append(rows, strings.Join([]string{
			quoteCell(task.Title),
			quoteCell(task.Category),
			task.DueDate,
			string(task.Priority),
			completed,
			task.CreatedAt,
		}, ","))
	}
	return strings.Join(rows, "\n"), nil
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
