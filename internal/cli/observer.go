package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/orgclone/internal/core"
	"github.com/inovacc/orgclone/internal/model"
	"github.com/inovacc/orgclone/internal/progress"
)

// ProgramObserver forwards engine events to a running bubbletea program.
type ProgramObserver struct {
	send func(tea.Msg)
}

// NewProgramObserver returns an observer that sends to p.
func NewProgramObserver(p *tea.Program) *ProgramObserver {
	return &ProgramObserver{send: p.Send}
}

func (o *ProgramObserver) RunStarted(entity string, total int) {
	o.send(runStartMsg{entity: entity, total: total})
}

func (o *ProgramObserver) RepoStarted(repo model.RepositoryMetadata, action core.Action) {
	o.send(repoStartMsg{repo: repo, action: action})
}

func (o *ProgramObserver) Sample(s progress.Sample) {
	o.send(repoSampleMsg{sample: s})
}

func (o *ProgramObserver) RepoFinished(result model.SyncResult) {
	o.send(repoResultMsg{result: result})
}
