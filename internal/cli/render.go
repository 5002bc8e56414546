package cli

import (
	"fmt"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/report"
	"github.com/AnshRaj112/remontee-backend/internal/triage"
)

// parseStatus accepts the French values and short English keywords.
func parseStatus(s string) (models.Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en attente", "attente", "pending":
		return models.StatusPending, nil
	case "en cours", "encours", "in-progress", "progress":
		return models.StatusInProgress, nil
	case "traité", "traite", "resolved", "done":
		return models.StatusResolved, nil
	}
	return "", apperrors.Newf(apperrors.ErrorCodeValidation, "Statut invalide: %q", s)
}

func normalizeFilter(f triage.Filter) (triage.Filter, error) {
	if f.Status == "" || f.Status == triage.StatusAll {
		return f, nil
	}
	s, err := parseStatus(f.Status)
	if err != nil {
		return f, err
	}
	f.Status = string(s)
	return f, nil
}

func (a *App) printFeedbackTable(list []models.Feedback, admin bool) {
	if len(list) == 0 {
		a.printf("%s\n", a.ui.faint("Aucune remontée trouvée."))
		return
	}
	t := a.ui.theme
	header := a.ui.cell("#", 6, t.Faint) +
		a.ui.cell("Date", 12, t.Faint) +
		a.ui.cell("Demandeur", 24, t.Faint) +
		a.ui.cell("Société", 14, t.Faint) +
		a.ui.cell("Type", 26, t.Faint) +
		a.ui.cell("Statut", 12, t.Faint)
	a.printf("%s\n%s\n", header, a.ui.rule(94))

	for _, fb := range list {
		name := strings.ToUpper(fb.Nom) + " " + fb.Prenom
		a.printf("%s%s%s%s%s%s\n",
			a.ui.cell(fmt.Sprintf("%d", fb.ID), 6, t.Text),
			a.ui.cell(report.FormatDate(fb.Date), 12, t.Text),
			a.ui.cell(name, 24, t.Text),
			a.ui.cell(fb.SocieteAgence, 14, t.Text),
			a.ui.cell(fb.TypeProbleme, 26, t.Text),
			a.ui.cell(string(fb.Status), 12, t.StatusColor(fb.Status)),
		)
		if admin && fb.ActionAdmin != "" {
			a.printf("      %s\n", a.ui.faint("↳ "+truncate(fb.ActionAdmin, 86)))
		}
	}
}

func (a *App) printCounts(c triage.Counts) {
	a.printf("%s  %s %d   %s %d   %s %d   %s %d\n\n",
		a.ui.title("Tableau de bord"),
		a.ui.label("Total"), c.Total,
		a.ui.status(models.StatusPending), c.Pending,
		a.ui.status(models.StatusInProgress), c.InProgress,
		a.ui.status(models.StatusResolved), c.Resolved,
	)
}

func (a *App) printFeedback(fb models.Feedback) {
	line := func(label, value string) {
		if value == "" {
			value = a.ui.faint("-")
		}
		a.printf("  %s %s\n", a.ui.label(fmt.Sprintf("%-28s", label)), value)
	}
	block := func(label, value string) {
		a.printf("  %s\n", a.ui.label(label))
		if value == "" {
			a.printf("    %s\n", a.ui.faint("-"))
			return
		}
		for _, l := range strings.Split(value, "\n") {
			a.printf("    %s\n", l)
		}
	}

	a.printf("%s  %s\n\n", a.ui.title(fmt.Sprintf("Remontée #%d", fb.ID)), a.ui.status(fb.Status))
	line("Date", report.FormatDate(fb.Date))
	line("Nom", strings.ToUpper(fb.Nom))
	line("Prénom", fb.Prenom)
	line("Société", fb.SocieteAgence)
	line("Lieu", fb.LieuClient)
	line("Type", fb.TypeProbleme)
	line("Reçue le", fb.CreatedAt.Local().Format("02/01/2006 15:04"))
	a.printf("\n")
	block("Description", fb.Description)
	block("Action entreprise/suggérée", fb.Action)
	block("Action réalisée par l'admin", fb.ActionAdmin)
}

func (a *App) printTypes(types []models.ProblemType) {
	if len(types) == 0 {
		a.printf("%s\n", a.ui.faint("Aucun type de problème."))
		return
	}
	t := a.ui.theme
	a.printf("%s%s%s\n%s\n", a.ui.cell("#", 6, t.Faint), a.ui.cell("Libellé", 40, t.Faint), a.ui.cell("État", 10, t.Faint), a.ui.rule(56))
	for _, pt := range types {
		state, color := "Actif", t.Success
		if !pt.IsActive {
			state, color = "Inactif", t.Faint
		}
		a.printf("%s%s%s\n", a.ui.cell(fmt.Sprintf("%d", pt.ID), 6, t.Text), a.ui.cell(pt.Label, 40, t.Text), a.ui.cell(state, 10, color))
	}
}

func (a *App) printHistory(events []models.TriageEvent) {
	if len(events) == 0 {
		a.printf("%s\n", a.ui.faint("Aucun historique."))
		return
	}
	for _, ev := range events {
		a.printf("%s  %-22s %s\n", a.ui.faint(ev.Timestamp.Local().Format("02/01/2006 15:04")), string(ev.Action), ev.Value)
	}
}
