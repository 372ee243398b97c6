// Package errors provides structured, coded error messages for fetchview.
//
// Every error that reaches a human (CLI output, server logs) carries a code
// from the registry. A code maps to:
//   - a short message describing the failure
//   - a longer explanation
//   - an optional hint on how to resolve it
//
// # Error Categories
//
//   - transport: the request never produced a response
//   - http: a response arrived with a non-success status
//   - decode: the response body did not match the expected schema
//   - validation: caller input was rejected before any request was made
//   - config: configuration files or environment are invalid
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E200").
//	    WithDetail("fetchview.yaml: line 3: mapping values are not allowed").
//	    WithSuggestion("Check the YAML indentation")
//
//	fmt.Fprint(os.Stderr, err.Format())
//
// Errors from other packages that implement Code() are formatted with the
// matching registry template by Format.
package errors
