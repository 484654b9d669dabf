package config

// SuiteFileExt is the extension of demand suite files.
const SuiteFileExt = ".demand.yaml"

// SuiteFileExtensions are all recognized suite file extensions
var SuiteFileExtensions = []string{".demand.yaml", ".demand.yml"}

// IsTestMode indicates if the program is running under go test.
// Inference variable names are normalized in this mode so output is deterministic.
var IsTestMode = false

// Built-in type names
const (
	IntTypeName     = "Int"
	Int8TypeName    = "Int8"
	Int16TypeName   = "Int16"
	Int32TypeName   = "Int32"
	Int64TypeName   = "Int64"
	FloatTypeName   = "Float"
	Float32TypeName = "Float32"
	Float64TypeName = "Float64"
	BoolTypeName    = "Bool"
	CharTypeName    = "Char"
	StringTypeName  = "String"
	NilTypeName     = "Nil"
	ListTypeName    = "List"
	MapTypeName     = "Map"
	OptionTypeName  = "Option"
	PtrTypeName     = "Ptr"

	// ErrorTypeName is the type of an expression whose checking already failed.
	// It is compatible with every type so one mistake produces one diagnostic.
	ErrorTypeName = "<error>"
)

// StaticRegion outlives every other region.
const StaticRegion = "static"

// NumericWidenings lists the implicit numeric coercions: From -> To.
// Widening is only applied by coercion, never by equality or subtyping.
var NumericWidenings = map[string][]string{
	Int8TypeName:    {Int16TypeName, Int32TypeName, Int64TypeName, IntTypeName, FloatTypeName, Float64TypeName},
	Int16TypeName:   {Int32TypeName, Int64TypeName, IntTypeName, FloatTypeName, Float64TypeName},
	Int32TypeName:   {Int64TypeName, IntTypeName, FloatTypeName, Float64TypeName},
	Int64TypeName:   {IntTypeName},
	IntTypeName:     {FloatTypeName},
	Float32TypeName: {Float64TypeName, FloatTypeName},
}

// Widens reports whether a value of numeric type from may be implicitly
// converted to numeric type to.
func Widens(from, to string) bool {
	for _, t := range NumericWidenings[from] {
		if t == to {
			return true
		}
	}
	return false
}
