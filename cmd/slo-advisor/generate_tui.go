package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/slodlc/slo-advisor/internal/guide"
	"github.com/slodlc/slo-advisor/internal/tui"
)

// runGenerateTUI runs generation with an interactive progress display.
// The final result stays on screen until the user quits.
func runGenerateTUI(ctx context.Context, gen *guide.Generator, req guide.Request, emitter *guide.EventEmitter, outPath, outDir string) (retErr error) {
	// Suppress log output while the TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runGenerateTUI: %v", r)
		}
	}()

	program, _ := tui.NewGenerateProgram(req.ServiceName, string(req.Platform))

	go forwardEventsToTUI(program, emitter.Events(), req.ServiceName, string(req.Platform))

	// Generation result, valid once genDone is closed.
	var genPath string
	var genErr error
	genDone := make(chan struct{})
	go func() {
		defer close(genDone)
		res, err := gen.Generate(ctx, req)
		emitter.Close()
		if err != nil {
			genErr = err
			errPath := filepath.Join(outDir, res.Filename)
			if werr := os.WriteFile(errPath, []byte(res.ErrorDoc), 0644); werr == nil {
				genPath = errPath
			}
			program.Send(tui.GenerateDoneMsg{Path: genPath, Err: err})
			return
		}
		if werr := os.WriteFile(outPath, []byte(res.Guide), 0644); werr != nil {
			genErr = werr
			program.Send(tui.GenerateDoneMsg{Err: werr})
			return
		}
		genPath = outPath
		program.Send(tui.GenerateDoneMsg{Path: outPath})
	}()

	tuiDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				tuiDone <- fmt.Errorf("PANIC in TUI: %v", r)
			}
		}()
		_, err := program.Run()
		tuiDone <- err
	}()

	select {
	case <-genDone:
		// Wait for the user to quit the TUI so they can read the result,
		// then repeat it on the plain terminal.
		if err := <-tuiDone; err != nil {
			return err
		}
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "Error generating guide: %v\n", genErr)
			if genPath != "" {
				fmt.Printf("Error document saved to: %s\n", genPath)
			}
			os.Exit(1)
		}
		fmt.Printf("%s SLO Implementation Guide saved to: %s\n", color.GreenString("✓"), genPath)
		return nil

	case err := <-tuiDone:
		// User quit before generation finished; the caller's context
		// cancellation stops the generator.
		return err
	}
}

// forwardEventsToTUI converts generator events to TUI messages.
func forwardEventsToTUI(program *tea.Program, events <-chan guide.Event, service, platform string) {
	state := tui.GenerateState{
		Service:  service,
		Platform: platform,
		Phase:    "starting",
	}

	for event := range events {
		logPhase := "info"
		switch event.Type {
		case guide.EventStarted:
			state.Phase = "sanitizing"
			logPhase = "start"
		case guide.EventChunked:
			state.ChunksTotal = event.Chunks
			state.Phase = "chunking"
			logPhase = "chunk"
		case guide.EventModelCall:
			state.Model = event.Model
			state.Attempt = event.Attempt
			state.Phase = "generating"
			logPhase = "call"
		case guide.EventRetry:
			state.Attempt = event.Attempt
			state.Retries++
			state.Phase = "retrying"
			logPhase = "retry"
		case guide.EventFallback:
			state.Model = event.Model
			state.Attempt = 0
			state.Phase = "fallback"
			logPhase = "fallback"
		case guide.EventChunkCompleted:
			state.ChunksDone = event.Chunk
			state.InputTokens += event.InputTokens
			state.OutputTokens += event.OutputTokens
			state.Cost += event.Cost
			logPhase = "chunk"
		case guide.EventSectionsMissing:
			logPhase = "sections"
		case guide.EventCompleted:
			state.Phase = "completed"
			state.InputTokens = event.InputTokens
			state.OutputTokens = event.OutputTokens
			state.Cost = event.Cost
			logPhase = "done"
		case guide.EventFailed:
			state.Phase = "failed"
			logPhase = "failed"
		}

		program.Send(tui.GenerateUpdateMsg{State: state})
		msg := event.Message
		if event.Err != nil && event.Type == guide.EventRetry {
			msg = fmt.Sprintf("%s: %v", event.Message, event.Err)
		}
		program.Send(tui.GenerateLogMsg{
			Timestamp: event.Timestamp,
			Phase:     logPhase,
			Message:   msg,
		})
	}
}
