package xlgen

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func percentStyler(calls *int32) func() Styler {
	return func() Styler {
		atomic.AddInt32(calls, 1)
		return StylerFunc(func(*excelize.File) (*excelize.Style, error) {
			return &excelize.Style{NumFmt: 10}, nil
		})
	}
}

func TestStylerRegistry_CachesInstances(t *testing.T) {
	var calls int32
	r := NewStylerRegistry()
	r.Register("percent", percentStyler(&calls))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Get("percent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"percent"}, r.Names())

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownStyler)

	// re-registering drops the cached instance
	r.Register("percent", percentStyler(&calls))
	_, err = r.Get("percent")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

type rated struct {
	Rate  float64   `xlsx:"Rate" xlstyler:"percent" xlstyle:"format=0.0"`
	Score float64   `xlsx:"Score" xlstyle:"bold;format=0.000"`
	Plain float64   `xlsx:"Plain"`
	When  time.Time `xlsx:"When"`
}

func (rated) Sheet() Sheet { return Sheet{Name: "Rated"} }

func cellStyle(t *testing.T, f *excelize.File, sheet, cell string) *excelize.Style {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	return st
}

func TestStyleResolution_Precedence(t *testing.T) {
	var calls int32
	registry := NewStylerRegistry()
	registry.Register("percent", percentStyler(&calls))

	for i := 0; i < 2; i++ {
		g, err := NewSingleSheet[rated](WithEngine(EngineMemory), WithStylerRegistry(registry))
		require.NoError(t, err)
		require.NoError(t, g.AddRow(rated{Rate: 0.25, Score: 1.5, Plain: 2, When: time.Now()}))
		f := writeGenerator[rated](t, g)

		// styler wins over the structured style
		assert.Equal(t, 10, cellStyle(t, f, "Rated", "A2").NumFmt)

		score := cellStyle(t, f, "Rated", "B2")
		require.NotNil(t, score.Font)
		assert.True(t, score.Font.Bold)
		require.NotNil(t, score.CustomNumFmt)
		assert.Equal(t, "0.000", *score.CustomNumFmt)

		// body style plus the data format strategy
		plain := cellStyle(t, f, "Rated", "C2")
		require.NotNil(t, plain.CustomNumFmt)
		assert.Equal(t, FormatDecimal.Pattern, *plain.CustomNumFmt)
		assert.True(t, isDateFormat(cellStyle(t, f, "Rated", "D2").NumFmt, cellStyle(t, f, "Rated", "D2").CustomNumFmt))

		header := cellStyle(t, f, "Rated", "A1")
		require.NotNil(t, header.Font)
		assert.True(t, header.Font.Bold)
	}
	// one instance shared by both generators
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStyleResolution_EmptyDataFormat(t *testing.T) {
	registry := NewStylerRegistry()
	registry.Register("percent", percentStyler(new(int32)))

	g, err := NewSingleSheet[rated](
		WithEngine(EngineMemory),
		WithStylerRegistry(registry),
		WithDataFormatStrategy(EmptyDataFormat()),
	)
	require.NoError(t, err)
	require.NoError(t, g.AddRow(rated{When: time.Now()}))
	f := writeGenerator[rated](t, g)

	plain := cellStyle(t, f, "Rated", "C2")
	assert.Zero(t, plain.NumFmt)
	assert.Nil(t, plain.CustomNumFmt)
}

func TestStyleResolution_UnknownStyler(t *testing.T) {
	_, err := NewSingleSheet[rated]()
	assert.ErrorIs(t, err, ErrUnknownStyler)

	_, err = NewSingleSheet[person](WithSheet(Sheet{HeaderStyler: "nope"}))
	assert.ErrorIs(t, err, ErrUnknownStyler)
}

func TestStyleResolver_Memoizes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	r := newStyleResolver(f, NewStylerRegistry(), DefaultDataFormat())

	a, err := r.resolve("", &Style{Bold: true}, nil)
	require.NoError(t, err)
	b, err := r.resolve("", &Style{Bold: true}, nil)
	require.NoError(t, err)
	c, err := r.resolve("", &Style{Bold: true}, reflect.TypeOf(0))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, r.ids, 2)
}

func TestStyle_Excelize(t *testing.T) {
	st := (&Style{
		FontColor:   "#00ff00",
		FillPattern: 1,
		FillBgColor: "CCCCCC",
		Border:      1,
		Horizontal:  "left",
		QuotePrefix: true,
	}).Excelize()

	assert.Equal(t, "00FF00", st.Font.Color)
	assert.Equal(t, []string{"CCCCCC"}, st.Fill.Color)
	require.Len(t, st.Border, 4)
	assert.Equal(t, "000000", st.Border[0].Color)
	require.NotNil(t, st.Alignment)
	assert.Equal(t, "left", st.Alignment.Horizontal)
	assert.Equal(t, textNumFmt, st.NumFmt)
	assert.True(t, hasNumFmt(st))

	var none *Style
	assert.False(t, hasNumFmt(none.Excelize()))
}
