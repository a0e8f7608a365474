// webmail-cli is a terminal client for the webmail backend's REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"webmail-cli/internal/api"
	"webmail-cli/internal/config"
	"webmail-cli/internal/logging"
	"webmail-cli/internal/model"
	"webmail-cli/internal/secret"
	"webmail-cli/internal/storage"
	"webmail-cli/internal/tui"
)

func main() {
	mailbox := flag.String("mailbox", string(model.Inbox), "Mailbox to show on startup (inbox, sent or archive)")
	envFile := flag.String("env-file", "", "Path to env file, defaults to ./.env when present")
	logFile := flag.String("log-file", "", "Path to log file, overrides WEBMAIL_LOG_FILE")
	setSession := flag.Bool("set-session", false, "Prompt for the backend sessionid cookie and store it in the keyring")

	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	logger, closeLog := setupLogger(cfg)
	defer closeLog()

	if *setSession {
		if err := storeSession(); err != nil {
			logger.Error("failed to store session", "error", err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Session saved.")
		return
	}

	mb := model.Mailbox(*mailbox)
	if !mb.Valid() {
		fmt.Fprintf(os.Stderr, "unknown mailbox %q\n", *mailbox)
		os.Exit(2)
	}

	if cfg.SessionID == "" {
		// The file keyring may prompt for its password on stdin.
		cfg.SessionID = loadSession(logger, term.IsTerminal(int(os.Stdin.Fd())), openKeyring)
	}

	client := api.NewClient(api.Config{
		BaseURL:   cfg.BaseURL,
		SessionID: cfg.SessionID,
		CSRFToken: cfg.CSRFToken,
		Timeout:   cfg.HTTPTimeout,
	})
	logger.Info("starting webmail-cli", "base_url", client.BaseURL(), "mailbox", mb)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := printMailbox(context.Background(), os.Stdout, client, mb); err != nil {
			logger.Error("failed to list mailbox", "mailbox", mb, "error", err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	opts := tui.Options{
		Logger:  logger,
		Editor:  cfg.Editor,
		Mailbox: mb,
	}

	// Drafts are optional; the client works without them.
	db, err := openDrafts(cfg.DBPath)
	if err != nil {
		logger.Warn("drafts disabled", "path", cfg.DBPath, "error", err)
	} else {
		defer db.Close()
		opts.Drafts = db
	}

	p := tea.NewProgram(tui.NewModel(client, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger logs to the configured file. If the file cannot be opened the
// log goes to stderr, uncolored.
func setupLogger(cfg *config.Config) (*slog.Logger, func()) {
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging to stderr:", err)
		return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, false), func() {}
	}
	return logging.New(f, cfg.LogLevel, cfg.LogFormat, false), func() { f.Close() }
}

type sessionGetter interface {
	Get(key string) (string, error)
}

func openKeyring() (sessionGetter, error) {
	return secret.Open()
}

// loadSession reads the stored session cookie. Without an interactive stdin
// the keyring is not opened at all.
func loadSession(logger *slog.Logger, interactive bool, open func() (sessionGetter, error)) string {
	if !interactive {
		logger.Debug("stdin is not a terminal, skipping keyring")
		return ""
	}
	store, err := open()
	if err != nil {
		logger.Warn("keyring unavailable", "error", err)
		return ""
	}
	session, err := store.Get(secret.SessionKey)
	if errors.Is(err, secret.ErrNotFound) {
		logger.Debug("no session stored in keyring")
		return ""
	}
	if err != nil {
		logger.Warn("failed to read session", "error", err)
		return ""
	}
	return session
}

func storeSession() error {
	fmt.Fprint(os.Stderr, "sessionid: ")
	value, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	session := strings.TrimSpace(string(value))
	if session == "" {
		return errors.New("empty session")
	}

	store, err := secret.Open()
	if err != nil {
		return err
	}
	return store.Set(secret.SessionKey, session)
}

func openDrafts(path string) (*storage.DB, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type mailboxLister interface {
	ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Email, error)
}

// printMailbox writes one tab-separated line per email: sender, subject,
// timestamp and read state.
func printMailbox(ctx context.Context, w io.Writer, client mailboxLister, mailbox model.Mailbox) error {
	emails, err := client.ListMailbox(ctx, mailbox)
	if err != nil {
		return err
	}
	for _, e := range emails {
		state := "unread"
		if e.Read {
			state = "read"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Sender, e.Subject, e.Timestamp, state); err != nil {
			return err
		}
	}
	return nil
}
