package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/synapsepay/go-synapse-client/core"
)

func NewCmdSubscriptions(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Manage webhook subscriptions of the platform",
	}

	lf := &ListFlags{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := a.rest()
			if err != nil {
				return err
			}
			if lf.All {
				subs, err := a.allPages(client.Subscriptions.Pages(a.context(), lf.Options()), "subscriptions")
				if err != nil {
					return errors.Wrap(err, "list subscriptions")
				}
				return a.print(subs)
			}
			result, err := client.Subscriptions.All(a.context(), lf.Options())
			if err != nil {
				return errors.Wrap(err, "list subscriptions")
			}
			return a.printList(result, "subscriptions")
		},
	}
	lf.register(list.Flags())

	get := &cobra.Command{
		Use:   "get SUBSCRIPTION_ID",
		Short: "Show one subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := a.rest()
			if err != nil {
				return err
			}
			result, err := client.Subscriptions.Handle(args[0]).Find(a.context())
			if err != nil {
				return errors.Wrapf(err, "get subscription %s", args[0])
			}
			return a.print(result)
		},
	}

	var (
		url   string
		scope []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Register a webhook url",
		Example: `  synapsectl subscriptions create --url https://example.com/hook --scope "USERS|POST" --scope "TRANS|POST"`,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := a.rest()
			if err != nil {
				return err
			}
			result, err := client.Subscriptions.Create(a.context(), url, scope)
			if err != nil {
				return errors.Wrap(err, "create subscription")
			}
			return a.print(result)
		},
	}
	create.Flags().StringVar(&url, "url", "", "Webhook url")
	create.Flags().StringArrayVar(&scope, "scope", nil, "Scope, repeatable")

	var (
		newURL   string
		newScope []string
		active   bool
	)
	update := &cobra.Command{
		Use:   "update SUBSCRIPTION_ID",
		Short: "Change the url, scope or activity of a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := core.Params{}
			payload.SetIf("url", newURL)
			payload.SetIf("scope", newScope)
			if cmd.Flags().Changed("active") {
				payload["is_active"] = active
			}
			client, err := a.rest()
			if err != nil {
				return err
			}
			result, err := client.Subscriptions.Handle(args[0]).Update(a.context(), payload)
			if err != nil {
				return errors.Wrapf(err, "update subscription %s", args[0])
			}
			return a.print(result)
		},
	}
	update.Flags().StringVar(&newURL, "url", "", "New webhook url")
	update.Flags().StringArrayVar(&newScope, "scope", nil, "New scope, repeatable")
	update.Flags().BoolVar(&active, "active", true, "Whether deliveries are active")

	cmd.AddCommand(list, get, create, update)
	return cmd
}
