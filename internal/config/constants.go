package config

const SourceFileExt = ".lm"

// TestMode indicates the checker is running under tests. Anonymous type
// variables print as t? so expectations stay stable across allocation
// order. Set once at startup.
var TestMode = false

// Built-in type names seeded into every environment.
const (
	IntTypeName    = "int"
	StringTypeName = "string"
	BoolTypeName   = "bool"
	TrueCtorName   = "True"
	FalseCtorName  = "False"
)
