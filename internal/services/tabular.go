package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/profbridge/profbridge-backend/internal/types"
)

// ParseTabular reads a csv or xlsx upload into the grid-shaped import batch:
// header row carries assignment titles after the first cell, each following
// row is one student name and that student's grade per column. Blank student
// cells drop the whole row; blank grade cells drop just that grade.
func ParseTabular(fileName string, data []byte) (*types.ImportBatch, error) {
	rows, err := tabularRows(fileName, data)
	if err != nil {
		return nil, err
	}
	return batchFromRows(rows), nil
}

// FlattenTabular renders a csv/xlsx file as plain text, one comma-joined line
// per row, for feeding into report generation.
func FlattenTabular(fileName string, data []byte) (string, error) {
	rows, err := tabularRows(fileName, data)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, row := range rows {
		out.WriteString(strings.Join(row, ", "))
		out.WriteString("\n")
	}
	return out.String(), nil
}

func tabularRows(fileName string, data []byte) ([][]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file: %s", fileName)
	}
	if isZip(data) {
		return xlsxRows(data)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".xlsx" || ext == ".xls" {
		return nil, fmt.Errorf("file claims %s but is not a valid workbook: %s", ext, fileName)
	}
	return csvRows(data)
}

func csvRows(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse: %w", err)
	}
	return rows, nil
}

func xlsxRows(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx rows: %w", err)
	}
	return rows, nil
}

func batchFromRows(rows [][]string) *types.ImportBatch {
	batch := &types.ImportBatch{}
	if len(rows) == 0 {
		return batch
	}

	header := rows[0]
	// title per column index, blank headers leave a hole
	titles := make([]string, len(header))
	for i := 1; i < len(header); i++ {
		title := strings.TrimSpace(header[i])
		if title == "" {
			continue
		}
		titles[i] = title
		batch.Assignments = append(batch.Assignments, types.ImportAssignment{Title: title})
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		batch.Students = append(batch.Students, types.ImportStudent{Name: name})
		for i := 1; i < len(row) && i < len(titles); i++ {
			if titles[i] == "" {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			batch.Grades = append(batch.Grades, types.ImportGrade{
				StudentName:     name,
				AssignmentTitle: titles[i],
				Grade:           value,
			})
		}
	}
	return batch
}
