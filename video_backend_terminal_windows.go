//go:build windows && !headless

package main

// The terminal backend depends on POSIX raw-mode stdin.
func NewTerminalOutput() (VideoOutput, error) {
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   "terminal backend is not supported on Windows",
	}
}
