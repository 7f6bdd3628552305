package suite

import (
	_ "embed"
)

//go:embed example_suite.yaml
var exampleSuiteContent []byte

// ExampleSuite returns a starter suite covering every check kind.
func ExampleSuite() []byte {
	return append([]byte(nil), exampleSuiteContent...)
}
