package commands

import (
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/internal/sessionstore"
	"github.com/synapsepay/go-synapse-client/resources"
)

// ListFlags are shared by every list command.
type ListFlags struct {
	Page    int
	PerPage int
	Query   string
	All     bool
}

func (f *ListFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&f.Page, "page", 0, "Page to fetch")
	flags.IntVar(&f.PerPage, "per-page", 0, "Items per page")
	flags.StringVar(&f.Query, "query", "", "Search query")
	flags.BoolVar(&f.All, "all", false, "Walk every page")
}

func (f *ListFlags) Options() *core.ListOptions {
	return &core.ListOptions{Page: f.Page, PerPage: f.PerPage, Query: f.Query}
}

// readRequestFile decodes a YAML request file into req. "-" reads stdin.
func readRequestFile(path string, req any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrapf(err, "read request file %s", path)
	}
	if err := yaml.Unmarshal(data, req); err != nil {
		return errors.Wrapf(err, "parse request file %s", path)
	}
	return nil
}

// collect drains a record iterator into a RecordSet.
func collect(seq iter.Seq2[core.Record, error]) (core.RecordSet, error) {
	var out core.RecordSet
	for record, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// allPages drains a page iterator, logging how many pages the API reported.
func (a *app) allPages(pages core.Iterator, what string) (core.RecordSet, error) {
	records, err := pages.All()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("listed all pages", zap.String("resource", what), zap.Int("pages", pages.Count()), zap.Int("records", len(records)))
	return records, nil
}

func NewCmdUsers(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the users of the platform",
	}

	lf := &ListFlags{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := a.rest()
			if err != nil {
				return err
			}
			if lf.All {
				users, err := a.allPages(client.Users.Pages(a.context(), lf.Options()), "users")
				if err != nil {
					return errors.Wrap(err, "list users")
				}
				return a.print(users)
			}
			result, err := client.Users.All(a.context(), lf.Options())
			if err != nil {
				return errors.Wrap(err, "list users")
			}
			return a.printList(result, "users")
		},
	}
	lf.register(list.Flags())

	get := &cobra.Command{
		Use:   "get USER_ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := a.rest()
			if err != nil {
				return err
			}
			user, err := client.Users.Find(a.context(), args[0])
			if err != nil {
				return errors.Wrapf(err, "get user %s", args[0])
			}
			return a.print(user)
		},
	}

	var (
		file string
		req  resources.CreateUserRequest
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user from flags or a YAML request file",
		Example: `  synapsectl users create --email test@synapsepay.com --phone 901.111.1111 --name "Test User"
  synapsectl users create -f user.yaml`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if file != "" {
				if err := readRequestFile(file, &req); err != nil {
					return err
				}
			}
			if req.Fingerprint == "" {
				req.Fingerprint = a.cfg.Fingerprint
			}
			client, err := a.rest()
			if err != nil {
				return err
			}
			user, err := client.Users.Create(a.context(), req)
			if err != nil {
				return errors.Wrap(err, "create user")
			}
			return a.print(user)
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "", "YAML request file, - for stdin")
	create.Flags().StringVar(&req.Email, "email", "", "Login email")
	create.Flags().StringSliceVar(&req.PhoneNumbers, "phone", nil, "Phone number, repeatable")
	create.Flags().StringSliceVar(&req.LegalNames, "name", nil, "Legal name, repeatable")
	create.Flags().StringVar(&req.SuppID, "supp-id", "", "Caller supplied identifier")
	create.Flags().BoolVar(&req.IsBusiness, "business", false, "Create a business user")

	cmd.AddCommand(list, get, create)
	return cmd
}

func NewCmdLogin(a *app) *cobra.Command {
	var refreshToken string
	cmd := &cobra.Command{
		Use:   "login USER_ID",
		Short: "Exchange a refresh token for an oauth key and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if refreshToken == "" {
				return errors.New("--refresh-token is required")
			}
			client, err := a.rest()
			if err != nil {
				return err
			}
			us, err := client.AuthenticateAs(a.context(), args[0], refreshToken, a.cfg.Fingerprint)
			if err != nil {
				return errors.Wrapf(err, "authenticate user %s", args[0])
			}
			entry := sessionstore.Entry{
				UserID:       us.UserID,
				OAuthKey:     us.OAuthKey,
				Fingerprint:  us.Context().Fingerprint,
				RefreshToken: us.RefreshToken,
				ExpiresAt:    us.ExpiresAt,
			}
			if err := a.store().Save(entry); err != nil {
				return errors.Wrap(err, "save session")
			}
			a.logger.Info("user session saved", zap.String("user_id", us.UserID), zap.String("path", a.store().Path()))
			_, err = fmt.Fprintf(a.out, "Logged in as %s (expires at %s)\n", us.UserID, us.ExpiresAt)
			return err
		},
	}
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token of the user")
	return cmd
}

func NewCmdLogout(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved user session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.store().Clear(); err != nil {
				return errors.Wrap(err, "clear session")
			}
			_, err := fmt.Fprintln(a.out, "Logged out")
			return err
		},
	}
}
