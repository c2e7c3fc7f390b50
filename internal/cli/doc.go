// Package cli provides the terminal user interface for orgclone runs.
//
// The package uses [Bubbletea] for the live view and [Lipgloss] for styling.
// [MirrorModel] follows the Model-View-Update architecture; the sync engine
// runs in its own goroutine and reaches the model through a
// [ProgramObserver], which turns engine callbacks into tea messages:
//
//	ctx, cancel := context.WithCancel(ctx)
//	m := cli.NewMirrorModel(entity, cancel)
//	p := tea.NewProgram(m)
//	// core.Options{Observer: cli.NewProgramObserver(p)}
//	go func() { s, err := engine.Mirror(ctx, client, entity); p.Send(cli.RunDone(s, err)) }()
//	_, err := p.Run()
//
// Quitting with 'q' cancels the context; the model keeps rendering until the
// engine has reported every repository.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
