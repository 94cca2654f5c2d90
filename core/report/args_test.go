package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOptionalText(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"nil", nil, nil},
		{"empty", "", nil},
		{"whitespace_only", "   \t ", nil},
		{"trimmed", "  Active ", "Active"},
		{"plain", "Reserve", "Reserve"},
		{"non_string_passes_through", 42, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeOptionalText(tt.input))
		})
	}
}

func TestNormalizeIDList(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"nil", nil, nil},
		{"empty", "", nil},
		{"all_blank_tokens", " , ,, ", nil},
		{"single", "12", "12"},
		{"canonicalizes_spacing", " 1 , 2,3 ", "1,2,3"},
		{"drops_empty_tokens", "1,,2,", "1,2"},
		// Token validity is the database's call, not ours.
		{"malformed_tokens_pass_through", "12,abc,0x9", "12,abc,0x9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIDList(tt.input))
		})
	}
}

func TestNormalizeRequiredInt(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		def      int64
		expected int64
	}{
		{"nil_defaults", nil, 1, 1},
		{"int", 5, 1, 5},
		{"int64", int64(7), 1, 7},
		{"integral_float", float64(9), 1, 9}, // JSON numbers decode as floats
		{"fractional_float_defaults", 9.5, 1, 1},
		{"string_defaults", "5", 1, 1},
		{"bool_defaults", true, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRequiredInt(tt.input, tt.def))
		})
	}
}

func TestNormalizeBit(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
	}{
		{"nil", nil, 0},
		{"false", false, 0},
		{"true", true, 1},
		{"zero", 0, 0},
		{"nonzero", 3, 1},
		{"zero_float", 0.0, 0},
		{"empty_string", "", 0},
		{"string_false", "false", 0},
		{"string_zero", "0", 0},
		{"string_true", "true", 1},
		{"arbitrary_string", "yes", 1},
		{"unknown_type_is_truthy", struct{}{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBit(tt.input))
		})
	}
}

func TestNormalizeArgs_Military(t *testing.T) {
	schema := MilitarySchema()
	require.Len(t, schema.Args, 9)

	args := NormalizeArgs(schema, map[string]any{
		"orgIds":              " 5, 6 ",
		"companyId":           float64(3),
		"personInstIds":       "",
		"orgType":             " HQ ",
		"withChildren":        true,
		"militaryStatus":      "Active",
		"financialCompanyIds": "9,,10",
	})

	assert.Equal(t, []any{
		int64(DefaultStructureID), // structureId absent, defaulted
		"5,6",
		int64(3),
		nil,
		"HQ",
		int64(1), // businessEntityId absent, defaulted
		int64(1),
		"Active",
		"9,10",
	}, args)
}

func TestNormalizeArgs_Custodies(t *testing.T) {
	schema := CustodiesSchema()
	require.Len(t, schema.Args, 10)
	assert.Equal(t, "custodyIds", schema.Args[9].Field)
	assert.Equal(t, "employeeStatus", schema.Args[7].Field)

	args := NormalizeArgs(schema, map[string]any{"custodyIds": "1,2"})
	require.Len(t, args, 10)
	assert.Equal(t, "1,2", args[9])
	assert.Nil(t, args[7])
	assert.Equal(t, int64(0), args[6]) // withChildren absent coerces to 0
}

func TestSchemas(t *testing.T) {
	schemas := Schemas()
	require.Contains(t, schemas, "military")
	require.Contains(t, schemas, "custodies")
	assert.Equal(t, "dbo.Rpt_Personnel_Military_Data", schemas["military"].Proc)
	assert.Equal(t, "dbo.Rpt_Personnel_Custodies_Data", schemas["custodies"].Proc)
}
