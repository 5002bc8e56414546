package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/remontee-backend/internal/catalog"
)

func (a *App) typesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Gérer les types de problème",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lister tous les types (actifs et inactifs)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			a.printTypes(m.Types())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add LIBELLE",
		Short: "Ajouter un type (le libellé est mis en majuscules)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := catalog.NewManager(a.api, a.confirmer())
			pt, err := m.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.printf("%s Type #%d ajouté: %s\n", a.ui.success("✓"), pt.ID, pt.Label)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle ID",
		Short: "Activer ou désactiver un type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			pt, err := m.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "désactivé"
			if pt.IsActive {
				state = "activé"
			}
			a.printf("%s Type %s %s.\n", a.ui.success("✓"), pt.Label, state)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Supprimer définitivement un type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m := catalog.NewManager(a.api, a.confirmer())
			if err := m.Delete(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("%s Type #%d supprimé.\n", a.ui.success("✓"), id)
			return nil
		},
	})
	return cmd
}

func (a *App) loadManager(ctx context.Context) (*catalog.Manager, error) {
	m := catalog.NewManager(a.api, a.confirmer())
	if err := m.Load(ctx); err != nil {
		return nil, err
	}
	return m, nil
}
