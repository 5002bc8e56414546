package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/report"
	"github.com/AnshRaj112/remontee-backend/internal/triage"
)

// adminCmd groups the commands that need a signed-in admin. The guard runs
// before any of them and refuses to continue without a stored session.
func (a *App) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Espace administrateur (connexion requise)",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			sess, err := a.state.RequireSession()
			if err != nil {
				return err
			}
			a.api.SetToken(sess.Token)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "ne pas demander de confirmation")

	cmd.AddCommand(a.adminListCmd())
	cmd.AddCommand(a.adminShowCmd())
	cmd.AddCommand(a.adminStatusCmd())
	cmd.AddCommand(a.adminActionCmd())
	cmd.AddCommand(a.adminDeleteCmd())
	cmd.AddCommand(a.adminExportCmd())
	cmd.AddCommand(a.adminHistoryCmd())
	cmd.AddCommand(a.typesCmd())
	return cmd
}

func (a *App) adminListCmd() *cobra.Command {
	var filter triage.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lister et filtrer les remontées",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := normalizeFilter(filter)
			if err != nil {
				return err
			}
			d := triage.NewDashboard(a.api, a.confirmer())
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}
			a.printCounts(d.Counts())
			a.printFeedbackTable(d.Visible(f), true)
			return nil
		},
	}
	addFilterFlags(cmd, &filter)
	return cmd
}

// loadDetail loads one record. A failure replaces the view with an error
// and a pointer back to the list.
func (a *App) loadDetail(ctx context.Context, arg string) (*triage.Detail, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	d := triage.NewDetail(a.api)
	if err := d.Load(ctx, id); err != nil {
		a.printf("%s\n%s\n", a.ui.error("Impossible de charger les détails de la remontée."),
			a.ui.faint("Retour au tableau de bord: remontee admin list"))
		return nil, err
	}
	return d, nil
}

func (a *App) adminShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Afficher le détail d'une remontée",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printFeedback(*d.Record())
			return nil
		},
	}
}

func (a *App) adminStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUT",
		Short: "Changer le statut (en attente, en cours, traité)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := parseStatus(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			d := triage.NewDashboard(a.api, a.confirmer())
			fb, err := d.ChangeStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			a.printf("%s Remontée #%d: %s\n", a.ui.success("✓"), fb.ID, a.ui.status(fb.Status))
			return nil
		},
	}
}

func (a *App) adminActionCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "action ID [TEXTE]",
		Short: "Remplacer l'action réalisée par l'admin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(args) > 1 {
				text = strings.Join(args[1:], " ")
			}
			if !cmd.Flags().Changed("text") && len(args) == 1 {
				answer, ok, err := a.term.Prompt("Action réalisée", d.Record().ActionAdmin)
				if err != nil {
					return err
				}
				if !ok {
					return apperrors.ErrCancelled
				}
				text = answer
			}
			if _, err := d.SaveAdminAction(cmd.Context(), text); err != nil {
				return err
			}
			a.printf("%s Action mise à jour avec succès.\n", a.ui.success("✓"))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "texte de l'action (remplace le texte existant)")
	return cmd
}

func (a *App) adminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Supprimer définitivement une remontée",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d := triage.NewDashboard(a.api, a.confirmer())
			if err := d.Delete(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("%s Remontée #%d supprimée.\n", a.ui.success("✓"), id)
			return nil
		},
	}
}

func (a *App) adminExportCmd() *cobra.Command {
	var dir, logo string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Exporter la fiche en PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			exporter := report.NewExporter(report.ParseLogoSource(logo), a.term, a.logger)
			path, err := d.Export(cmd.Context(), exporter, dir)
			if err != nil {
				return err
			}
			a.printf("%s Fiche enregistrée: %s\n", a.ui.success("✓"), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "dossier de destination")
	cmd.Flags().StringVar(&logo, "logo", a.Getenv("REMONTEE_LOGO"), "logo (chemin ou URL, REMONTEE_LOGO)")
	return cmd
}

func (a *App) adminHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Historique de traitement d'une remontée",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			events, err := a.api.FeedbackHistory(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printHistory(events)
			return nil
		},
	}
}
