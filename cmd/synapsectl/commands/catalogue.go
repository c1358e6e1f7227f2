package commands

import (
	"fmt"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/internal/cliconfig"
	"github.com/synapsepay/go-synapse-client/openapi_schema"
	"github.com/synapsepay/go-synapse-client/resources"
)

func NewCmdVersion(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.out, core.ClientSemver().String())
			return err
		},
	}
}

func NewCmdRoutes(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the operations of the API catalogue",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			routes, err := openapi_schema.Routes()
			if err != nil {
				return errors.Wrap(err, "load API catalogue")
			}
			if a.cfg.Output != cliconfig.OutputTable {
				set := make(core.RecordSet, 0, len(routes))
				for _, r := range routes {
					set = append(set, core.Record{"method": r.Method, "path": r.Path, "summary": r.Summary})
				}
				return a.print(set)
			}
			rows := make([][]any, 0, len(routes))
			for _, r := range routes {
				rows = append(rows, []any{r.Method, r.Path, r.Summary})
			}
			t := gotabulate.Create(rows)
			t.SetHeaders([]string{"method", "path", "summary"})
			t.SetAlign("left")
			_, err = fmt.Fprintln(a.out, t.Render("simple"))
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "describe METHOD PATH",
		Short:   "Show the request body fields of one operation",
		Example: "  synapsectl routes describe POST /users/u1/nodes/n1/trans",
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			route, err := openapi_schema.MatchRoute(method, args[1])
			if err != nil {
				return err
			}
			fields, err := openapi_schema.RequestBodyFields(method, args[1])
			if err != nil {
				return err
			}
			set := make(core.RecordSet, 0, len(fields))
			for _, f := range fields {
				set = append(set, core.Record{"name": f.Name, "type": f.Type, "required": f.Required})
			}
			if a.cfg.Output == cliconfig.OutputTable {
				if _, err := fmt.Fprintf(a.out, "%s %s: %s\n", route.Method, route.Path, route.Summary); err != nil {
					return err
				}
			}
			return a.print(set)
		},
	})
	return cmd
}

func NewCmdInstitutions(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "institutions",
		Short: "List the banks supported by bank login",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			session, err := a.anonymous()
			if err != nil {
				return err
			}
			banks, err := resources.NewInstitutions(session).List(a.context())
			if err != nil {
				return errors.Wrap(err, "list institutions")
			}
			return a.print(banks)
		},
	}
}
