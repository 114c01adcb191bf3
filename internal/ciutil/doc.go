// Package ciutil detects CI environments and resolves the environment
// variables integration tests read. In CI a missing backend is a failure;
// locally the test is skipped.
package ciutil
