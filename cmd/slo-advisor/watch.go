package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slodlc/slo-advisor/internal/config"
	"github.com/slodlc/slo-advisor/internal/worksheet"
)

var watchCmd = &cobra.Command{
	Use:   "watch <worksheet>",
	Short: "Revalidate a worksheet on every save",
	Long: `Watch a Discovery worksheet and revalidate it every time it changes.

Useful while filling in a worksheet: keep this running in a terminal and
every save reports whether the file would pass the generation gate.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	validator, err := buildValidator(cfg)
	if err != nil {
		return err
	}

	path := args[0]
	printResult := func(res worksheet.Result) {
		if res.OK {
			fmt.Printf("%s %s\n", color.GreenString("✓"), res.Reason)
		} else {
			fmt.Printf("%s Validation failed: %s\n", color.RedString("✗"), res.Reason)
		}
	}

	// Report the current state before waiting for changes.
	printResult(validator.Validate(path))

	w, err := worksheet.NewWatcher(path, validator)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", path)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped watching.")
			return nil
		case res := <-w.Results():
			printResult(res)
		}
	}
}
