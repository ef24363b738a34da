package xlgen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// person is the basic record used across tests.
type person struct {
	Name  string `xlsx:"Name,order=2"`
	Age   int    `xlsx:"Age,order=1"`
	Email string `xlsx:"E-mail,order=3"`
	Note  string
}

func (person) Sheet() Sheet { return Sheet{Name: "People"} }

func people() []person {
	return []person{
		{Name: "Alice", Age: 30, Email: "alice@example.com"},
		{Name: "Bob", Age: 25, Email: "bob@example.com"},
		{Name: "Carol", Age: 35, Email: "carol@example.com"},
	}
}

// noSheet has columns but no sheet declaration.
type noSheet struct {
	Name string `xlsx:"Name"`
}

// writeGenerator writes g and reopens the result.
func writeGenerator[T any](t *testing.T, g Generator[T]) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// headerRow returns the first row of sheet.
func headerRow(t *testing.T, f *excelize.File, sheet string) []string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	return rows[0]
}

// rawCell returns the unformatted value of a cell.
func rawCell(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func columnNames(cols []*Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
