package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/catalog"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/triage"
)

type submitFlags struct {
	sub   models.FeedbackSubmission
	typ   string
	other string
}

func (a *App) submitCmd() *cobra.Command {
	var f submitFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Envoyer une remontée d'information",
		Long: `Envoyer une remontée d'information.

Les champs obligatoires absents des options sont demandés. Le type de
problème est choisi dans le catalogue; "Autre" permet de saisir un type
libre (--autre).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSubmit(cmd.Context(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.sub.Societe, "societe", models.DefaultCompany, "société / agence")
	fl.StringVar(&f.sub.Date, "date", "", "date (AAAA-MM-JJ, aujourd'hui par défaut)")
	fl.StringVar(&f.sub.Nom, "nom", "", "nom")
	fl.StringVar(&f.sub.Prenom, "prenom", "", "prénom")
	fl.StringVar(&f.sub.Lieu, "lieu", "", "lieu / client")
	fl.StringVar(&f.typ, "type", "", "type de problème")
	fl.StringVar(&f.other, "autre", "", "type libre lorsque le type est \"Autre\"")
	fl.StringVar(&f.sub.Description, "description", "", "description")
	fl.StringVar(&f.sub.Action, "action", "", "action entreprise ou suggérée")
	return cmd
}

// ask prompts for value when it is empty.
func (a *App) ask(value *string, question, defaultValue string) error {
	if strings.TrimSpace(*value) != "" {
		return nil
	}
	answer, ok, err := a.term.Prompt(question, defaultValue)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCancelled
	}
	*value = answer
	return nil
}

func (a *App) runSubmit(ctx context.Context, f submitFlags) error {
	sub := f.sub
	today := a.Now().Format("2006-01-02")
	for _, q := range []struct {
		value    *string
		question string
		def      string
	}{
		{&sub.Date, "Date", today},
		{&sub.Nom, "Nom", ""},
		{&sub.Prenom, "Prénom", ""},
		{&sub.Lieu, "Lieu / client", ""},
	} {
		if err := a.ask(q.value, q.question, q.def); err != nil {
			return err
		}
	}

	opts := catalog.LoadOptions(ctx, a.api)
	if opts.Degraded {
		a.logger.Warn("Catalogue indisponible, types par défaut proposés", zap.Error(opts.Err))
	}
	choice, err := a.chooseType(opts, f.typ, f.other)
	if err != nil {
		return err
	}
	sub.Type, err = catalog.Resolve(choice)
	if err != nil {
		return err
	}

	fb, err := a.api.SubmitFeedback(ctx, sub)
	if err != nil {
		return err
	}
	a.printf("%s Remontée #%d enregistrée (%s).\n", a.ui.success("✓"), fb.ID, a.ui.status(fb.Status))
	return nil
}

// chooseType maps --type/--autre to a Choice, or shows the numbered list
// when --type is absent.
func (a *App) chooseType(opts catalog.Options, typ, other string) (catalog.Choice, error) {
	typ = strings.TrimSpace(typ)
	if typ != "" {
		choice := opts.ChooseLabel(typ)
		if oc, ok := choice.(catalog.OtherChoice); ok && oc.Text == catalog.OtherLabel {
			return a.otherChoice(other)
		}
		return choice, nil
	}

	a.printf("%s\n", a.ui.label("Type de problème"))
	display := opts.Display()
	for i, label := range display {
		a.printf("  %d. %s\n", i+1, label)
	}
	answer, ok, err := a.term.Prompt("Choix", "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrCancelled
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrorCodeValidation, "Choix invalide: %q", answer)
	}
	if n == len(display) {
		return a.otherChoice(other)
	}
	return opts.Choose(n, "")
}

func (a *App) otherChoice(text string) (catalog.Choice, error) {
	if err := a.ask(&text, "Précisez le type de problème", ""); err != nil {
		return nil, err
	}
	return catalog.OtherChoice{Text: text}, nil
}

func (a *App) requestsCmd() *cobra.Command {
	var filter triage.Filter
	cmd := &cobra.Command{
		Use:     "demandes",
		Aliases: []string{"requests"},
		Short:   "Suivre l'état des remontées (public)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := normalizeFilter(filter)
			if err != nil {
				return err
			}
			list, err := a.api.ListPublicFeedback(cmd.Context())
			if err != nil {
				return err
			}
			a.printFeedbackTable(f.Apply(list), false)
			return nil
		},
	}
	addFilterFlags(cmd, &filter)
	return cmd
}

func addFilterFlags(cmd *cobra.Command, f *triage.Filter) {
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "recherche (nom, prénom, société, type, description)")
	cmd.Flags().StringVar(&f.Status, "status", triage.StatusAll,
		fmt.Sprintf("statut: %s, %q, %q ou %q", triage.StatusAll, models.StatusPending, models.StatusInProgress, models.StatusResolved))
}
