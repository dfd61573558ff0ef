package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn_MissingCount(t *testing.T) {
	col := Column{Name: "a", Cells: []Cell{{Raw: "1"}, MissingCell(), {Raw: "x"}, MissingCell()}}
	assert.Equal(t, 2, col.MissingCount())
	assert.Equal(t, 0, Column{Name: "empty"}.MissingCount())
}

func TestTable_Shape(t *testing.T) {
	var nilTable *Table
	assert.Equal(t, 0, nilTable.NumRows())
	assert.Equal(t, 0, nilTable.NumColumns())

	table := &Table{
		Source: "in.csv",
		Columns: []Column{
			{Name: "a", Cells: []Cell{{Raw: "1"}, {Raw: "2"}}},
			{Name: "b", Cells: []Cell{MissingCell(), {Raw: "y"}}},
		},
	}
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, 2, table.NumColumns())
	assert.Equal(t, []string{"a", "b"}, table.ColumnNames())
	assert.Empty(t, (&Table{}).ColumnNames())
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		wantErr string
	}{
		{name: "nil", table: nil, wantErr: "table is nil"},
		{name: "no columns", table: &Table{}},
		{
			name: "consistent",
			table: &Table{Columns: []Column{
				{Name: "a", Cells: []Cell{{Raw: "1"}}},
				{Name: "b", Cells: []Cell{MissingCell()}},
			}},
		},
		{
			name: "ragged",
			table: &Table{Columns: []Column{
				{Name: "a", Cells: []Cell{{Raw: "1"}}},
				{Name: "b"},
			}},
			wantErr: `column "b" has 0 rows, expected 1`,
		},
		{
			name: "duplicate names",
			table: &Table{Columns: []Column{
				{Name: "a"},
				{Name: "a"},
			}},
			wantErr: `duplicate column name "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptionalFloat(t *testing.T) {
	assert.Equal(t, OptionalFloat{Value: 1.5, Valid: true}, Some(1.5))
	assert.False(t, None().Valid)
}

func TestSummaryTable_JSON(t *testing.T) {
	summary := SummaryTable{
		Source: "in.csv",
		Rows:   2,
		Summaries: []SummaryRow{
			{Column: "a", Mean: Some(1.5), Min: Some(1), Max: Some(2), SD: Some(0.7071067811865476)},
			{Column: "b", NMissing: 2},
		},
	}
	assert.Equal(t, []string{"a", "b"}, summary.Columns())

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"n_missing":2`)
	assert.Contains(t, string(data), `"mean":{"value":0,"valid":false}`)
}
