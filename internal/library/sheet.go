package library

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/flashdeck/internal/domain"
)

// ImportSheet reads cards from column A (front) and column B (back) of the
// first sheet of an .xlsx file, or the first two fields of a .csv file. A
// leading "front"/"back" header row is skipped, as are rows with a blank
// side.
func ImportSheet(path string) ([]domain.CardDraft, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	default:
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	var cards []domain.CardDraft
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		front, back := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if i == 0 && strings.EqualFold(front, "front") && strings.EqualFold(back, "back") {
			continue
		}
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, domain.CardDraft{Front: front, Back: back})
	}
	return cards, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var sheetHeader = []any{"front", "back", "status", "ease", "interval", "next review"}

// ExportSheet writes the cards of a set with their progress to an .xlsx
// file. The first sheet is named after the set.
func ExportSheet(set *SetWithCards, progress []domain.CardProgress, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(set.Name)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &sheetHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	byCard := make(map[string]domain.CardProgress, len(progress))
	for _, p := range progress {
		byCard[p.CardID] = p
	}

	for i, c := range set.Cards {
		row := []any{c.Front, c.Back, "", "", "", ""}
		if p, ok := byCard[c.ID]; ok {
			row[2] = string(p.Status)
			row[3] = strconv.FormatFloat(p.EaseFactor, 'f', 2, 64)
			row[4] = p.Interval
			if p.NextReviewAt != nil {
				row[5] = p.NextReviewAt.Local().Format(time.DateOnly)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 40); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}

// sheetName returns a sheet name excel accepts: at most 31 characters and
// none of : \ / ? * [ ].
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	if name == "" {
		return "Cards"
	}
	return name
}
