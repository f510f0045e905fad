package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads fact rows from every sheet. Expected columns:
// subject | relation | anchor | object. A first row whose cells spell
// the column names is treated as a header and skipped; rows without a
// subject and relation are dropped.
func parseXLSX(ctx context.Context, path string) ([]Fact, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	var facts []Fact
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		for i, row := range rows {
			if i == 0 && isHeaderRow(row) {
				continue
			}
			fact := rowToFact(row)
			if fact.Subject == "" || fact.Relation == "" {
				continue
			}
			facts = append(facts, fact)
		}
	}

	if len(facts) == 0 {
		return nil, fmt.Errorf("no fact rows found in %s", path)
	}
	return facts, nil
}

func rowToFact(row []string) Fact {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return Fact{
		Subject:  cell(0),
		Relation: strings.ToUpper(cell(1)),
		Anchor:   cell(2),
		Object:   cell(3),
	}
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "subject"
}
