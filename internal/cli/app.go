package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isdelr/todo-be/internal/client"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

const usage = `Usage: todo <command> [arguments]

Commands:
  register            create an account
  login               sign in; todos are then read from the server
  logout              sign out; todos are then read from this machine
  whoami              show the current session
  list                list todos
  add <text>          add a todo
  done <id>           mark a todo as completed
  undo <id>           mark a todo as not completed
  edit <id> <text>    change the text of a todo
  rm <id>             delete a todo
`

// App runs one CLI command against the store selected by the saved session.
type App struct {
	api     *client.APIClient
	local   *client.LocalStore
	store   *client.Store
	session *SessionFile

	in  *bufio.Reader
	out io.Writer
	// readPassword reads without echo when stdin is a terminal.
	readPassword func() (string, error)
}

// NewApp opens the local store under cfg.Home.
func NewApp(ctx context.Context, cfg Config, in io.Reader, out io.Writer) (*App, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", cfg.Home, err)
	}
	local, err := client.OpenLocal(ctx, cfg.localPath())
	if err != nil {
		return nil, err
	}

	api := client.NewAPIClient(cfg.APIURL, nil)
	a := &App{
		api:     api,
		local:   local,
		store:   client.NewStore(api, local),
		session: NewSessionFile(cfg.sessionPath()),
		in:      bufio.NewReader(in),
		out:     out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.readPassword = func() (string, error) {
			pw, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(a.out)
			return string(pw), err
		}
	}
	return a, nil
}

func (a *App) Close() error {
	return a.local.Close()
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	}

	if err := a.open(ctx); err != nil {
		return err
	}

	switch cmd {
	case "list", "ls":
		return a.list()
	case "add":
		if len(args) == 0 {
			return usageError("add <text>")
		}
		if err := a.store.Add(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
		return a.list()
	case "done", "undo":
		if len(args) != 1 {
			return usageError(cmd + " <id>")
		}
		if err := a.store.Toggle(ctx, a.resolveID(args[0]), cmd == "done"); err != nil {
			return err
		}
		return a.list()
	case "edit":
		if len(args) < 2 {
			return usageError("edit <id> <text>")
		}
		text := strings.Join(args[1:], " ")
		if err := a.store.Update(ctx, a.resolveID(args[0]), models.TodoUpdateRequest{Text: &text}); err != nil {
			return err
		}
		return a.list()
	case "rm", "delete":
		if len(args) != 1 {
			return usageError("rm <id>")
		}
		if err := a.store.Delete(ctx, a.resolveID(args[0])); err != nil {
			return err
		}
		return a.list()
	}

	fmt.Fprint(a.out, usage)
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
}

// open points the store at the source chosen by the saved session.
func (a *App) open(ctx context.Context) error {
	token, err := a.session.Load()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	return a.store.SetSource(ctx, client.SourceFor(token))
}

func (a *App) list() error {
	fmt.Fprint(a.out, renderTodos(a.store.Mode(), a.store.Todos()))
	return nil
}

// resolveID expands a unique id prefix as printed by list.
func (a *App) resolveID(arg string) string {
	match := ""
	for _, t := range a.store.Todos() {
		if t.ID == arg {
			return arg
		}
		if strings.HasPrefix(t.ID, arg) {
			if match != "" {
				return arg
			}
			match = t.ID
		}
	}
	if match == "" {
		return arg
	}
	return match
}

func (a *App) register(ctx context.Context) error {
	name, err := a.prompt("Nom")
	if err != nil {
		return err
	}
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Mot de passe")
	if err != nil {
		return err
	}

	user, err := a.api.Register(ctx, models.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, successStyle.Render("Compte créé pour "+user.Email))
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Mot de passe")
	if err != nil {
		return err
	}

	user, token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.session.Save(token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	fmt.Fprintln(a.out, successStyle.Render("Connecté en tant que "+user.Name))
	return nil
}

func (a *App) logout(ctx context.Context) error {
	token, err := a.session.Load()
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(a.out, "Déjà déconnecté")
		return nil
	}
	if err := a.api.Logout(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Server logout failed; discarding local session anyway")
	}
	if err := a.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, successStyle.Render("Déconnecté"))
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	token, err := a.session.Load()
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(a.out, "Non connecté (todos locaux)")
		return nil
	}
	user, err := a.api.Session(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label+": ")
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) promptPassword(label string) (string, error) {
	if a.readPassword == nil {
		return a.prompt(label)
	}
	fmt.Fprint(a.out, label+": ")
	return a.readPassword()
}

func usageError(form string) error {
	return fmt.Errorf("%w: todo %s", ErrUsage, form)
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	return errorStyle.Render("Erreur: " + err.Error())
}
