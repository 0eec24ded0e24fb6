//go:build nostack

package errors

func captureStack(int) string { return "" }
