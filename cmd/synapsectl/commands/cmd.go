package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/internal/cliconfig"
	"github.com/synapsepay/go-synapse-client/internal/logging"
	"github.com/synapsepay/go-synapse-client/internal/sessionstore"
	"github.com/synapsepay/go-synapse-client/resources"
	"github.com/synapsepay/go-synapse-client/rest"
)

type Writer struct {
	Out io.Writer
	Err io.Writer
}

// Execute runs synapsectl and exits with status 1 on failure.
func Execute(w *Writer) {
	c := NewCmdRoot(w.Out)
	execErr := c.Execute()
	if execErr == nil {
		return
	}
	defer os.Exit(1)
	fprintError(w.Err, execErr)
}

func fprintError(w io.Writer, err error) {
	if kind, ok := core.KindOf(err); ok {
		_, _ = fmt.Fprintf(w, "Error (%s): %v\n", kind, err)
		return
	}
	if core.IsTransportError(err) {
		_, _ = fmt.Fprintf(w, "Error (transport): %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

// RootFlags are the global flags. Set flags win over env and config file values.
type RootFlags struct {
	ConfigPath   string
	EnvFile      string
	Sandbox      bool
	BaseURL      string
	ClientID     string
	ClientSecret string
	Fingerprint  string
	ClientIP     string
	Output       string
	LogFile      string
	SessionFile  string
}

// app carries what every command needs once the global flags are parsed.
type app struct {
	out    io.Writer
	flags  *RootFlags
	cfg    *cliconfig.Config
	logger *zap.Logger
	flush  func()
	client *rest.SynapseRest
}

func NewCmdRoot(w io.Writer) *cobra.Command {
	a := &app{out: w, flags: &RootFlags{}}
	cmd := &cobra.Command{
		Use:           "synapsectl",
		Short:         "Command line client for the Synapse payments API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.flush != nil {
				a.flush()
			}
		},
	}
	cmd.SetOut(w)

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.ConfigPath, "config", "", "Path to the config file (default ~/.synapse/config.yaml)")
	f.StringVar(&a.flags.EnvFile, "env-file", "", "Dotenv file to load (default .env when present)")
	f.BoolVar(&a.flags.Sandbox, "sandbox", true, "Use the sandbox environment")
	f.StringVar(&a.flags.BaseURL, "base-url", "", "Override the API base URL")
	f.StringVar(&a.flags.ClientID, "client-id", "", "Platform client id")
	f.StringVar(&a.flags.ClientSecret, "client-secret", "", "Platform client secret")
	f.StringVar(&a.flags.Fingerprint, "fingerprint", "", "Device fingerprint sent with user calls")
	f.StringVar(&a.flags.ClientIP, "client-ip", "", "Value of the X-SP-USER-IP header")
	f.StringVarP(&a.flags.Output, "output", "o", "", "Output format: table, json, yaml")
	f.StringVar(&a.flags.LogFile, "log-file", "", "Log file (default ~/.synapse/logs/synapsectl.log)")
	f.StringVar(&a.flags.SessionFile, "session-file", "", "Where login stores the user session")

	cmd.AddCommand(
		NewCmdVersion(a),
		NewCmdRoutes(a),
		NewCmdInstitutions(a),
		NewCmdUsers(a),
		NewCmdLogin(a),
		NewCmdLogout(a),
		NewCmdNodes(a),
		NewCmdTransactions(a),
		NewCmdSubscriptions(a),
	)
	return cmd
}

// setup merges config file, dotenv, environment and flags, then starts the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := cliconfig.Load(a.flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := cliconfig.LoadEnvFile(a.flags.EnvFile, a.flags.EnvFile != ""); err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	changed := func(name string) bool {
		flag := cmd.Flag(name)
		return flag != nil && flag.Changed
	}
	overrides := map[string]func(){
		"sandbox":       func() { cfg.Sandbox = a.flags.Sandbox },
		"base-url":      func() { cfg.BaseURL = a.flags.BaseURL },
		"client-id":     func() { cfg.ClientID = a.flags.ClientID },
		"client-secret": func() { cfg.ClientSecret = a.flags.ClientSecret },
		"fingerprint":   func() { cfg.Fingerprint = a.flags.Fingerprint },
		"client-ip":     func() { cfg.ClientIP = a.flags.ClientIP },
		"output":        func() { cfg.Output = a.flags.Output },
		"log-file":      func() { cfg.LogFile = a.flags.LogFile },
		"session-file":  func() { cfg.SessionFile = a.flags.SessionFile },
	}
	for name, apply := range overrides {
		if changed(name) {
			apply()
		}
	}
	switch cfg.Output {
	case cliconfig.OutputTable, cliconfig.OutputJSON, cliconfig.OutputYAML:
	default:
		return fmt.Errorf("unsupported output %q, expected one of table, json, yaml", cfg.Output)
	}
	a.cfg = cfg

	logger, flush, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "start logger")
	}
	a.logger, a.flush = logger, flush
	return nil
}

func (a *app) synapseConfig() *core.SynapseConfig {
	config := a.cfg.SynapseConfig()
	config.Logger = a.logger
	return config
}

// rest builds the authenticated client on first use.
func (a *app) rest() (*rest.SynapseRest, error) {
	if a.client != nil {
		return a.client, nil
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := rest.NewSynapseRest(a.synapseConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	a.client = client
	return client, nil
}

// anonymous builds a session for endpoints that need no credentials.
func (a *app) anonymous() (*core.SynapseSession, error) {
	config := a.synapseConfig()
	config.Validate(
		core.WithBaseURL,
		core.WithTimeouts(core.DefaultConnectTimeout, core.DefaultReadTimeout, core.DefaultWriteTimeout),
		core.WithUserAgent,
		core.WithLogger,
	)
	return core.NewSynapseSession(config)
}

func (a *app) store() *sessionstore.Store {
	return sessionstore.New(a.cfg.SessionFile)
}

// userSession resumes the session saved by login.
func (a *app) userSession() (*resources.UserSession, error) {
	client, err := a.rest()
	if err != nil {
		return nil, err
	}
	entry, err := a.store().Load()
	if err != nil {
		return nil, err
	}
	if entry.Expired(timeNow()) {
		return nil, errors.Errorf("session of user %s expired at %s, run `synapsectl login` again", entry.UserID, entry.ExpiresAt)
	}
	return client.ResumeSession(entry.UserID, entry.Context(), entry.RefreshToken), nil
}

func (a *app) context() context.Context {
	return context.Background()
}
