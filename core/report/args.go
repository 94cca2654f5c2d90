// Package report turns raw filter-form input into stored-procedure calls and
// materializes their results. Normalization is schema-driven: each report kind
// declares an ordered argument schema, so adding a report kind means adding a
// schema, not another normalizer.
package report

import (
	"fmt"
	"strings"
)

// ArgKind selects the normalization rule for one procedure argument.
type ArgKind string

// Supported argument kinds.
const (
	// ArgText passes a trimmed string through, or nil when empty/absent.
	ArgText ArgKind = "text"
	// ArgIDList canonicalizes a comma-separated id string, or nil when empty.
	ArgIDList ArgKind = "idlist"
	// ArgInt passes an integer through, or the argument's default when the input
	// is absent or not an integer.
	ArgInt ArgKind = "int"
	// ArgBit coerces any value to 0 or 1 via truthiness.
	ArgBit ArgKind = "bit"
)

// ArgSpec describes one positional argument of a stored procedure: the form
// field it reads and how to normalize it.
type ArgSpec struct {
	Field   string
	Kind    ArgKind
	Default int64
}

// ProcSchema is the fixed argument shape of one report's stored procedure.
type ProcSchema struct {
	// Name is the report kind identifier, used in export filenames and URLs.
	Name string
	// Proc is the stored procedure to execute.
	Proc string
	// Args lists the positional arguments in binding order.
	Args []ArgSpec
}

// DefaultStructureID is the fixed organizational context every report runs
// under.
const DefaultStructureID = 92

// MilitarySchema returns the argument shape of the military personnel report.
func MilitarySchema() ProcSchema {
	return ProcSchema{
		Name: "military",
		Proc: "dbo.Rpt_Personnel_Military_Data",
		Args: []ArgSpec{
			{Field: "structureId", Kind: ArgInt, Default: DefaultStructureID},
			{Field: "orgIds", Kind: ArgIDList},
			{Field: "companyId", Kind: ArgInt, Default: 1},
			{Field: "personInstIds", Kind: ArgIDList},
			{Field: "orgType", Kind: ArgText},
			{Field: "businessEntityId", Kind: ArgInt, Default: 1},
			{Field: "withChildren", Kind: ArgBit},
			{Field: "militaryStatus", Kind: ArgText},
			{Field: "financialCompanyIds", Kind: ArgIDList},
		},
	}
}

// CustodiesSchema returns the argument shape of the custodies report.
func CustodiesSchema() ProcSchema {
	return ProcSchema{
		Name: "custodies",
		Proc: "dbo.Rpt_Personnel_Custodies_Data",
		Args: []ArgSpec{
			{Field: "structureId", Kind: ArgInt, Default: DefaultStructureID},
			{Field: "orgIds", Kind: ArgIDList},
			{Field: "companyId", Kind: ArgInt, Default: 1},
			{Field: "personInstIds", Kind: ArgIDList},
			{Field: "orgType", Kind: ArgText},
			{Field: "businessEntityId", Kind: ArgInt, Default: 1},
			{Field: "withChildren", Kind: ArgBit},
			{Field: "employeeStatus", Kind: ArgText},
			{Field: "financialCompanyIds", Kind: ArgIDList},
			{Field: "custodyIds", Kind: ArgIDList},
		},
	}
}

// Schemas returns the built-in report schemas keyed by report kind.
func Schemas() map[string]ProcSchema {
	return map[string]ProcSchema{
		"military":  MilitarySchema(),
		"custodies": CustodiesSchema(),
	}
}

// NormalizeArgs shapes a flat form-field mapping into the ordered argument
// list for a procedure schema, ready for positional binding. Normalization is
// lenient by default: unusable input falls back to nil or the declared
// default rather than rejecting the request.
func NormalizeArgs(schema ProcSchema, values map[string]any) []any {
	args := make([]any, 0, len(schema.Args))
	for _, spec := range schema.Args {
		raw := values[spec.Field]
		switch spec.Kind {
		case ArgIDList:
			args = append(args, NormalizeIDList(raw))
		case ArgInt:
			args = append(args, NormalizeRequiredInt(raw, spec.Default))
		case ArgBit:
			args = append(args, NormalizeBit(raw))
		default:
			args = append(args, NormalizeOptionalText(raw))
		}
	}
	return args
}

// NormalizeOptionalText returns nil for absent, empty, or whitespace-only
// input, and the trimmed string otherwise. Non-string scalars pass through
// untouched so the driver can bind them.
func NormalizeOptionalText(v any) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return s
	}
	return v
}

// NormalizeIDList parses a comma-separated id string into a canonical
// comma-joined list of trimmed, non-empty tokens. Empty or all-blank input
// yields nil. Tokens are not validated; whether an id is well-formed is the
// database's call, so malformed tokens pass through verbatim.
func NormalizeIDList(v any) any {
	text := NormalizeOptionalText(v)
	if text == nil {
		return nil
	}
	s, ok := text.(string)
	if !ok {
		return fmt.Sprintf("%v", text)
	}

	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, ",")
}

// NormalizeRequiredInt returns the input as an int64 when it is an integer
// (or an integral float, which is what JSON numbers decode to), and the
// default otherwise.
func NormalizeRequiredInt(v any, def int64) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return def
	case float32:
		if val == float32(int64(val)) {
			return int64(val)
		}
		return def
	default:
		return def
	}
}

// NormalizeBit coerces any value into a 0/1 bit via truthiness. It never
// fails: nil, false, zero, and blank strings are 0, everything else is 1.
func NormalizeBit(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(strings.ToLower(val))
		if s == "" || s == "0" || s == "false" {
			return 0
		}
		return 1
	case int:
		return bit(val != 0)
	case int32:
		return bit(val != 0)
	case int64:
		return bit(val != 0)
	case float64:
		return bit(val != 0)
	case float32:
		return bit(val != 0)
	default:
		return 1
	}
}

func bit(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
