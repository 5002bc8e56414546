package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnshRaj112/remontee-backend/internal/appstate"
	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
)

func (a *App) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Se connecter à l'espace administrateur",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ask(&email, "Email", ""); err != nil {
				return err
			}
			password, err := a.term.Password("Mot de passe")
			if err != nil {
				return err
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return apperrors.Validation("Email et mot de passe requis")
			}

			resp, err := a.api.Login(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			if err := a.state.SignIn(resp.Token, resp.User); err != nil {
				return err
			}
			a.api.SetToken(resp.Token)
			a.printf("%s Connecté en tant que %s %s.\n", a.ui.success("✓"), resp.User.Prenom, strings.ToUpper(resp.User.Nom))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "adresse email")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Se déconnecter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.state.Authenticated() {
				a.printf("%s\n", a.ui.faint("Aucune session active."))
				return nil
			}
			// the local session is dropped even when the server call fails
			if err := a.api.Logout(cmd.Context()); err != nil {
				a.logger.Warn("Déconnexion serveur impossible", zap.Error(err))
			}
			if err := a.state.SignOut(); err != nil {
				return err
			}
			a.api.SetToken("")
			a.printf("%s Déconnecté.\n", a.ui.success("✓"))
			return nil
		},
	}
}

func (a *App) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Afficher, basculer ou choisir le thème",
		Long:      "Sans argument, bascule entre les thèmes clair et sombre.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(appstate.ThemeLight), string(appstate.ThemeDark)},
		RunE: func(_ *cobra.Command, args []string) error {
			var theme appstate.Theme
			if len(args) == 0 {
				t, err := a.state.ToggleTheme()
				if err != nil {
					return err
				}
				theme = t
			} else {
				theme = appstate.Theme(strings.ToLower(args[0]))
				if err := a.state.SetTheme(theme); err != nil {
					return err
				}
			}
			a.ui = newStyles(a.Out, ThemeFor(theme))
			a.printf("Thème: %s\n", a.ui.title(string(theme)))
			return nil
		},
	}
}
