package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmRequestMsg asks the user a yes/no question on behalf of a
// goroutine blocked in Prompter.Confirm.
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// Prompter is a session.Confirmer answered from the UI. Confirm blocks
// until the model receives the request and the user answers.
type Prompter struct {
	requests chan confirmRequestMsg
}

// NewPrompter creates a Prompter.
func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan confirmRequestMsg)}
}

// Confirm implements session.Confirmer.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case p.requests <- confirmRequestMsg{prompt: prompt, reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// wait returns a command that delivers the next confirm request, or nil
// once ctx is done.
func (p *Prompter) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-p.requests:
			return req
		case <-ctx.Done():
			return nil
		}
	}
}
