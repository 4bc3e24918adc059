//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// - The *_mock_test.go files follow the layout of github.com/matryer/moq
//   (XxxFunc fields, XxxCalls accessors) and are maintained by hand.
