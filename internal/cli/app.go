// Package cli is the remontee command: the public form and status viewer,
// the admin triage commands and the local session/theme state.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnshRaj112/remontee-backend/internal/appstate"
	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/client"
	"github.com/AnshRaj112/remontee-backend/internal/logging"
	"github.com/AnshRaj112/remontee-backend/internal/prompt"
)

// App carries the streams and the resources shared by every command. The
// resources are created once, before the first command runs.
type App struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Getenv func(string) string
	Now    func() time.Time

	statePath string
	apiURL    string
	verbose   bool
	assumeYes bool

	ready  bool
	state  *appstate.Store
	api    *client.Client
	logger *zap.Logger
	term   *prompt.Terminal
	ui     *styles
}

// Run executes the command line and returns the process exit code.
func Run(args []string, in io.Reader, out, errOut io.Writer) int {
	app := &App{In: in, Out: out, Err: errOut, Getenv: os.Getenv, Now: time.Now}
	return app.Execute(args)
}

func (a *App) Execute(args []string) int {
	root := a.NewRootCommand()
	root.SetArgs(args)
	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return 0
	}
	if errors.Is(err, apperrors.ErrCancelled) {
		fmt.Fprintln(a.Out, "Opération annulée.")
		return 0
	}
	ui := a.ui
	if ui == nil {
		ui = newStyles(a.Err, LightTheme)
	}
	fmt.Fprintln(a.Err, ui.error("Erreur: ")+apperrors.UserMessage(err))
	return 1
}

func (a *App) NewRootCommand() *cobra.Command {
	apiDefault := a.Getenv("REMONTEE_API_URL")
	if apiDefault == "" {
		apiDefault = client.DefaultBaseURL
	}

	root := &cobra.Command{
		Use:   "remontee",
		Short: "Fiche Remontée d'Information",
		Long: `Fiche Remontée d'Information

Formulaire public de remontée, suivi des demandes et traitement
administrateur (statuts, actions, export PDF, types de problème).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", apiDefault, "URL de l'API (REMONTEE_API_URL)")
	flags.StringVar(&a.statePath, "state", a.Getenv("REMONTEE_STATE"), "fichier d'état local (REMONTEE_STATE)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "journalisation détaillée")

	root.AddCommand(a.submitCmd())
	root.AddCommand(a.requestsCmd())
	root.AddCommand(a.loginCmd())
	root.AddCommand(a.logoutCmd())
	root.AddCommand(a.themeCmd())
	root.AddCommand(a.adminCmd())
	return root
}

// setup loads the state file and builds the client, logger and styles.
func (a *App) setup() error {
	if a.ready {
		return nil
	}
	a.logger = logging.NewCLI(a.verbose)

	path := a.statePath
	if path == "" {
		p, err := appstate.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	state, err := appstate.Load(path)
	if err != nil {
		return err
	}
	a.state = state

	a.api = client.New(a.apiURL, client.WithToken(state.Token()))
	a.term = prompt.NewTerminal(a.In, a.Out)
	a.ui = newStyles(a.Out, ThemeFor(state.Theme()))
	a.ready = true

	a.logger.Debug("CLI prête",
		zap.String("api", a.apiURL),
		zap.String("state", path),
		zap.String("theme", string(state.Theme())))
	return nil
}

func (a *App) confirmer() prompt.Confirmer {
	if a.assumeYes {
		return prompt.Always(true)
	}
	return a.term
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, format, args...)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, apperrors.Newf(apperrors.ErrorCodeValidation, "Identifiant invalide: %q", arg)
	}
	return id, nil
}
