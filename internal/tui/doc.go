// Package tui provides the terminal user interface for the generate command.
//
// This package contains a read-only TUI that displays guide generation
// progress in real-time. It is used exclusively by the generate command to
// show:
//   - Current generation phase (sanitizing, chunking, generating, retrying)
//   - Chunk completion progress when a worksheet was split (e.g., 2/4 chunks)
//   - The model in use, including retry attempts and fallback switches
//   - Token usage and estimated cost as chunk responses arrive
//   - Activity log with recent generation events
//
// The TUI is read-only and does not support interactive input.
// Users can only quit with 'q' or Ctrl+C.
//
// Usage:
//
//	program, app := tui.NewGenerateProgram("checkout", "Grafana")
//	go program.Run()
//
//	// Send state updates
//	program.Send(tui.GenerateUpdateMsg{State: state})
//
//	// Send log messages
//	program.Send(tui.GenerateLogMsg{
//	    Timestamp: time.Now(),
//	    Phase:     "call",
//	    Message:   "Calling claude-sonnet-4-20250514",
//	})
//
//	// Signal completion
//	program.Send(tui.GenerateDoneMsg{Path: "checkout-slo-implementation-guide.md"})
//
// The TUI renders a progress bar for chunked worksheets, formats
// timestamps, and keeps the final state on screen until the user quits.
package tui
