package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
)

// RentRollTable is the grid rendering of a rent-roll payload.
type RentRollTable struct {
	Columns []string
	Rows    [][]string
}

// RentRollView is either a table or, for unexpected responses, a raw dump.
type RentRollView struct {
	Status string
	Table  *RentRollTable
	Dump   string
}

// RenderRentRoll turns a response into a table when the status is
// "success" and the payload is a list of objects. Anything else becomes a
// diagnostic dump of the whole body.
func RenderRentRoll(resp *model.RentRollResponse) *RentRollView {
	view := &RentRollView{Status: resp.Status}
	if resp.Status == model.RentRollStatusSuccess {
		if table, err := buildTable(resp.Data); err == nil {
			view.Table = table
			return view
		}
	}
	view.Dump = indentJSON(resp.Raw)
	return view
}

type orderedRow struct {
	keys   []string
	values map[string]json.RawMessage
}

func buildTable(data json.RawMessage) (*RentRollTable, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("rent roll data is not a list")
	}

	var rows []orderedRow
	for dec.More() {
		row, err := decodeOrderedObject(dec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	table := &RentRollTable{}
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, k := range row.keys {
			if !seen[k] {
				seen[k] = true
				table.Columns = append(table.Columns, k)
			}
		}
	}
	for _, row := range rows {
		cells := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			if raw, ok := row.values[col]; ok {
				cells[i] = cellText(raw)
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// decodeOrderedObject reads one JSON object keeping its key order.
func decodeOrderedObject(dec *json.Decoder) (orderedRow, error) {
	row := orderedRow{values: make(map[string]json.RawMessage)}

	tok, err := dec.Token()
	if err != nil {
		return row, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return row, fmt.Errorf("rent roll row is not an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return row, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return row, err
		}
		if _, dup := row.values[key]; !dup {
			row.keys = append(row.keys, key)
		}
		row.values[key] = value
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return row, err
	}
	return row, nil
}

func cellText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	case 't', 'f':
		if b, err := strconv.ParseBool(string(trimmed)); err == nil {
			return strconv.FormatBool(b)
		}
	}
	return string(trimmed)
}
