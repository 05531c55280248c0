// Package export renders screen working sets to XLSX, on demand and on a
// cron schedule.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ainews-console/internal/backend"
	"ainews-console/internal/screen"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ToExcel writes one sheet with a bold header row and one row per record.
// Columns are dot paths; with none given the first record's keys are used.
func ToExcel(records []backend.Record, columns []string, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Export"
	}
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	if len(columns) == 0 && len(records) > 0 {
		columns = topLevelKeys(records[0])
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, rec := range records {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, cellValue(rec.Get(col))); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func cellValue(r gjson.Result) any {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return ""
	case r.Type == gjson.Number:
		return r.Float()
	case r.Type == gjson.True || r.Type == gjson.False:
		return r.Bool()
	case r.IsArray():
		parts := make([]string, 0, len(r.Array()))
		for _, e := range r.Array() {
			parts = append(parts, fmt.Sprint(cellValue(e)))
		}
		return strings.Join(parts, ", ")
	case r.IsObject():
		// populated references render by their display name
		for _, key := range []string{"name", "title", "email", "_id"} {
			if v := r.Get(key); v.Exists() {
				return v.String()
			}
		}
		return r.Raw
	}
	return r.String()
}

func topLevelKeys(rec backend.Record) []string {
	var keys []string
	gjson.ParseBytes(rec).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	sort.Strings(keys)
	return keys
}

// Filename is name-YYYYMMDD-HHMMSS.xlsx.
func Filename(name string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", name, now.Format("20060102-150405"))
}

// Screen renders the screen's current filtered set, across all pages.
func Screen(s *screen.Screen, now time.Time) (*backend.Blob, error) {
	def := s.Definition()
	data, err := ToExcel(s.Filtered(), def.Columns, def.Title)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", def.Name, err)
	}
	return &backend.Blob{Data: data, ContentType: ContentType, Filename: Filename(def.Name, now)}, nil
}
