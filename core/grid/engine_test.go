package grid

import (
	"testing"

	"github.com/asaidimu/go-gridview/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(DefaultEngineOptions(), nil)
}

// peopleTable is the three-row fixture from the windowing contract:
// ids 1..3, names Ann, Bob, cara.
func peopleTable(t *testing.T) *table.ResultTable {
	t.Helper()
	return mustTable(t, []string{"id", "name"}, [][]table.Value{
		{table.Int(1), table.Text("Ann")},
		{table.Int(2), table.Text("Bob")},
		{table.Int(3), table.Text("cara")},
	})
}

func TestEngine_GlobalSearch(t *testing.T) {
	engine := testEngine()
	tbl := peopleTable(t)

	t.Run("search is case-insensitive across all columns", func(t *testing.T) {
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Search("a").Window(0, 10).Build())
		// "Ann" and "cara" match; "Bob" does not.
		require.Equal(t, 2, resp.RowCount)
		assert.Equal(t, "Ann", resp.RowData[0]["name"].String())
		assert.Equal(t, "cara", resp.RowData[1]["name"].String())
	})

	t.Run("search matches numeric columns on string form", func(t *testing.T) {
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Search("2").Window(0, 10).Build())
		require.Equal(t, 1, resp.RowCount)
		assert.Equal(t, "Bob", resp.RowData[0]["name"].String())
	})

	t.Run("blank search keeps everything", func(t *testing.T) {
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Search("   ").Window(0, 10).Build())
		assert.Equal(t, 3, resp.RowCount)
	})

	t.Run("search is deterministic across runs", func(t *testing.T) {
		req := NewRequestBuilder().Search("a").Window(0, 10).Build()
		first, _, _ := engine.Serve(tbl, req)
		second, _, _ := engine.Serve(tbl, req)
		assert.Equal(t, first, second)
	})

	t.Run("search runs before structured filters", func(t *testing.T) {
		// Search narrows to Ann+cara, then the filter keeps ids > 1.
		req := NewRequestBuilder().Search("a").Where("id").GreaterThan(1).Window(0, 10).Build()
		resp, _, _ := engine.Serve(tbl, req)
		require.Equal(t, 1, resp.RowCount)
		assert.Equal(t, "cara", resp.RowData[0]["name"].String())
	})
}

func TestEngine_Windowing(t *testing.T) {
	engine := testEngine()
	tbl := peopleTable(t)

	t.Run("window beyond the filtered result is empty, not an error", func(t *testing.T) {
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Window(5, 10).Build())
		assert.Empty(t, resp.RowData)
		assert.Equal(t, 3, resp.RowCount)
	})

	t.Run("window is half-open", func(t *testing.T) {
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Window(1, 2).Build())
		require.Len(t, resp.RowData, 1)
		assert.Equal(t, "Bob", resp.RowData[0]["name"].String())
	})

	t.Run("window slice equals the full view slice", func(t *testing.T) {
		view, _ := engine.Evaluate(tbl, NewRequestBuilder().Build())
		resp := engine.Window(view, 1, 3)
		require.Len(t, resp.RowData, 2)
		assert.Equal(t, view.RowMap(1), resp.RowData[0])
		assert.Equal(t, view.RowMap(2), resp.RowData[1])
	})

	t.Run("zero matches reports the configured placeholder count", func(t *testing.T) {
		req := NewRequestBuilder().Search("zzz").Window(0, 10).Build()
		resp, _, _ := engine.Serve(tbl, req)
		assert.Empty(t, resp.RowData)
		// The client paginator renders a zero count as a broken page, so the
		// contract reports 1 for an empty view.
		assert.Equal(t, 1, resp.RowCount)
	})

	t.Run("placeholder count is configurable", func(t *testing.T) {
		honest := NewEngine(EngineOptions{ZeroRowCount: 1}, nil)
		custom := NewEngine(EngineOptions{ZeroRowCount: 7}, nil)
		req := NewRequestBuilder().Search("zzz").Window(0, 10).Build()

		resp, _, _ := honest.Serve(tbl, req)
		assert.Equal(t, 1, resp.RowCount)
		resp, _, _ = custom.Serve(tbl, req)
		assert.Equal(t, 7, resp.RowCount)
	})

	t.Run("negative start clamps to zero", func(t *testing.T) {
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Window(-3, 2).Build())
		assert.Len(t, resp.RowData, 2)
	})
}

func TestEngine_Sort(t *testing.T) {
	engine := testEngine()

	t.Run("empty sort keeps natural query order", func(t *testing.T) {
		tbl := mustTable(t, []string{"n"}, [][]table.Value{
			{table.Int(3)}, {table.Int(1)}, {table.Int(2)},
		})
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().Window(0, 10).Build())
		assert.Equal(t, "3", resp.RowData[0]["n"].String())
		assert.Equal(t, "1", resp.RowData[1]["n"].String())
		assert.Equal(t, "2", resp.RowData[2]["n"].String())
	})

	t.Run("stable sort keeps table order for equal keys", func(t *testing.T) {
		tbl := mustTable(t, []string{"grp", "name"}, [][]table.Value{
			{table.Text("b"), table.Text("first")},
			{table.Text("a"), table.Text("second")},
			{table.Text("b"), table.Text("third")},
			{table.Text("a"), table.Text("fourth")},
		})
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().SortBy("grp", SortAsc).Window(0, 10).Build())
		names := make([]string, 0, 4)
		for _, row := range resp.RowData {
			names = append(names, row["name"].String())
		}
		assert.Equal(t, []string{"second", "fourth", "first", "third"}, names)
	})

	t.Run("multi-column sort applies in listed order", func(t *testing.T) {
		tbl := mustTable(t, []string{"grp", "n"}, [][]table.Value{
			{table.Text("a"), table.Int(2)},
			{table.Text("b"), table.Int(1)},
			{table.Text("a"), table.Int(1)},
		})
		req := NewRequestBuilder().
			SortBy("grp", SortAsc).
			SortBy("n", SortDesc).
			Window(0, 10).Build()
		resp, _, _ := engine.Serve(tbl, req)
		assert.Equal(t, "2", resp.RowData[0]["n"].String())
		assert.Equal(t, "1", resp.RowData[1]["n"].String())
		assert.Equal(t, "b", resp.RowData[2]["grp"].String())
	})

	t.Run("numeric sort is numeric, not lexicographic", func(t *testing.T) {
		tbl := mustTable(t, []string{"n"}, [][]table.Value{
			{table.Int(10)}, {table.Int(9)}, {table.Int(100)},
		})
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().SortBy("n", SortAsc).Window(0, 10).Build())
		assert.Equal(t, "9", resp.RowData[0]["n"].String())
		assert.Equal(t, "10", resp.RowData[1]["n"].String())
		assert.Equal(t, "100", resp.RowData[2]["n"].String())
	})

	t.Run("nulls sort last in both directions", func(t *testing.T) {
		tbl := mustTable(t, []string{"n"}, [][]table.Value{
			{table.Null()}, {table.Int(2)}, {table.Int(1)},
		})
		asc, _, _ := engine.Serve(tbl, NewRequestBuilder().SortBy("n", SortAsc).Window(0, 10).Build())
		assert.True(t, asc.RowData[2]["n"].IsNull())
		desc, _, _ := engine.Serve(tbl, NewRequestBuilder().SortBy("n", SortDesc).Window(0, 10).Build())
		assert.True(t, desc.RowData[2]["n"].IsNull())
	})

	t.Run("unknown sort column is ignored", func(t *testing.T) {
		tbl := peopleTable(t)
		resp, _, _ := engine.Serve(tbl, NewRequestBuilder().SortBy("ghost", SortAsc).Window(0, 10).Build())
		assert.Equal(t, "Ann", resp.RowData[0]["name"].String())
	})
}

func TestEngine_PipelineOrderAffectsCount(t *testing.T) {
	engine := testEngine()
	tbl := mustTable(t, []string{"n", "label"}, [][]table.Value{
		{table.Int(1), table.Text("keep")},
		{table.Int(2), table.Text("keep")},
		{table.Int(3), table.Text("drop")},
	})

	req := NewRequestBuilder().
		Search("keep").
		Where("n").LessThan(2).
		Window(0, 10).Build()
	resp, _, _ := engine.Serve(tbl, req)
	assert.Equal(t, 1, resp.RowCount)
}

func TestEngine_SkipsSurfaceButDoNotFail(t *testing.T) {
	engine := testEngine()
	tbl := peopleTable(t)

	req := NewRequestBuilder().Window(0, 10).Build()
	req.FilterModel = map[string]FilterClause{
		"id": {FilterCondition: FilterCondition{Type: ConditionLessThan}}, // no operand
	}

	resp, _, skips := engine.Serve(tbl, req)
	require.Len(t, skips, 1)
	assert.Equal(t, "id", skips[0].Column)
	assert.Equal(t, 3, resp.RowCount)
}
