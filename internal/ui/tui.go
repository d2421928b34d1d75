// ABOUTME: TUI initialization and control
// ABOUTME: Runs a batch job under a bubbletea progress program
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Reporter is called by batch work after each written file
type Reporter func(done, total int, path string)

// Run shows a progress view while work executes. The work function runs on
// its own goroutine and reports through the Reporter it is handed. Its
// context is cancelled when the user quits or ctx is done, and Run waits for
// work to return before it does. Run returns the paths reported so far and
// work's error, or ErrCancelled when the user quits first.
func Run(ctx context.Context, title string, work func(ctx context.Context, report Reporter) error, opts ...tea.ProgramOption) ([]string, error) {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title), opts...)

	workDone := make(chan struct{})
	go func() {
		defer close(workDone)
		err := work(workCtx, func(done, total int, path string) {
			p.Send(ProgressMsg{Done: done, Total: total, Path: path})
		})
		// No-op once the program has exited
		p.Send(DoneMsg{Err: err})
	}()

	final, err := p.Run()
	cancel()
	<-workDone
	if err != nil {
		return nil, fmt.Errorf("progress UI failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Files(), m.Err()
}
