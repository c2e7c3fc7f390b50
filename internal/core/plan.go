package core

import (
	"fmt"
	"io"

	"github.com/inovacc/orgclone/internal/gitrepo"
	"github.com/inovacc/orgclone/internal/model"
)

// PlannedRepo is what a run would do with one repository.
type PlannedRepo struct {
	Repo   model.RepositoryMetadata
	Path   string
	Action Action
	Reason string
}

// Plan probes the local copy of every repository without changing anything.
func (e *Engine) Plan(entity string, repos []model.RepositoryMetadata) []PlannedRepo {
	plan := make([]PlannedRepo, 0, len(repos))

	for _, repo := range repos {
		path := e.PathFor(entity, repo.Name)
		probe := gitrepo.Probe(repo, path)

		planned := PlannedRepo{
			Repo:   repo,
			Path:   path,
			Action: actionFor(probe.Verdict),
		}

		if probe.Reason != nil {
			planned.Reason = probe.Reason.Error()
		}

		plan = append(plan, planned)
	}

	return plan
}

// PrintPlan prints what a run would do without executing
func PrintPlan(w io.Writer, entity, baseDir string, plan []PlannedRepo) {
	_, _ = fmt.Fprintf(w, "\nDry run: mirroring '%s'\n", entity)
	_, _ = fmt.Fprintf(w, "Base directory: %s\n", baseDir)
	_, _ = fmt.Fprintf(w, "Total repositories: %d\n\n", len(plan))

	counts := make(map[Action]int)
	for _, p := range plan {
		counts[p.Action]++
	}

	_, _ = fmt.Fprintf(w, "Actions:\n")
	_, _ = fmt.Fprintf(w, "  Clone: %d repositories\n", counts[ActionClone])
	_, _ = fmt.Fprintf(w, "  Update: %d repositories\n", counts[ActionUpdate])
	_, _ = fmt.Fprintf(w, "  Reclone: %d repositories\n\n", counts[ActionReclone])

	sections := []struct {
		action Action
		title  string
	}{
		{ActionClone, "Repositories to clone:"},
		{ActionUpdate, "Repositories to update:"},
		{ActionReclone, "Repositories to delete and clone again:"},
	}

	for _, section := range sections {
		if counts[section.action] == 0 {
			continue
		}

		_, _ = fmt.Fprintln(w, section.title)

		for _, p := range plan {
			if p.Action != section.action {
				continue
			}

			forkStr := ""
			if p.Repo.IsFork {
				forkStr = " [fork]"
			}

			reason := ""
			if p.Reason != "" {
				reason = " - " + p.Reason
			}

			_, _ = fmt.Fprintf(w, "  * %s%s%s\n", p.Repo.Name, forkStr, reason)
		}

		_, _ = fmt.Fprintln(w)
	}
}
