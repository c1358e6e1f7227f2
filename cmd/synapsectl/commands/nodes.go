package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/synapsepay/go-synapse-client/resources"
)

func NewCmdNodes(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Manage the nodes of the logged in user",
	}

	lf := &ListFlags{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List nodes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			if lf.All {
				nodes, err := collect(us.Nodes().Iter(a.context(), lf.Options()))
				if err != nil {
					return errors.Wrap(err, "list nodes")
				}
				return a.print(nodes)
			}
			result, err := us.Nodes().All(a.context(), lf.Options())
			if err != nil {
				return errors.Wrap(err, "list nodes")
			}
			return a.printList(result, "nodes")
		},
	}
	lf.register(list.Flags())

	get := &cobra.Command{
		Use:   "get NODE_ID",
		Short: "Show one node",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			node, err := us.Node(args[0]).Find(a.context())
			if err != nil {
				return errors.Wrapf(err, "get node %s", args[0])
			}
			return a.print(node)
		},
	}

	del := &cobra.Command{
		Use:   "delete NODE_ID",
		Short: "Delete a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.Node(args[0]).Delete(a.context())
			if err != nil {
				return errors.Wrapf(err, "delete node %s", args[0])
			}
			return a.print(result)
		},
	}

	var bank resources.BankAccountRequest
	addBank := &cobra.Command{
		Use:   "add-bank",
		Short: "Link an ACH-US bank account by account and routing number",
		Example: `  synapsectl nodes add-bank --name "John Doe" --account 123456786 --routing 051000017 \
      --category PERSONAL --type CHECKING`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.AddBankAccount(a.context(), bank)
			if err != nil {
				return errors.Wrap(err, "add bank account")
			}
			return a.printList(result, "nodes")
		},
	}
	addBank.Flags().StringVar(&bank.Name, "name", "", "Name on the account")
	addBank.Flags().StringVar(&bank.AccountNumber, "account", "", "Account number")
	addBank.Flags().StringVar(&bank.RoutingNumber, "routing", "", "Routing number")
	addBank.Flags().StringVar(&bank.Category, "category", "PERSONAL", "PERSONAL or BUSINESS")
	addBank.Flags().StringVar(&bank.Type, "type", "CHECKING", "CHECKING or SAVINGS")
	addBank.Flags().StringVar(&bank.Nickname, "nickname", "", "Node nickname, defaults to the name")
	addBank.Flags().StringVar(&bank.SuppID, "supp-id", "", "Caller supplied identifier")

	var login resources.BankLoginRequest
	bankLogin := &cobra.Command{
		Use:   "bank-login",
		Short: "Link the accounts of an online banking login",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.BankLogin(a.context(), login)
			if err != nil {
				return errors.Wrap(err, "bank login")
			}
			return a.print(result)
		},
	}
	bankLogin.Flags().StringVar(&login.BankName, "bank", "", "Institution code, see `synapsectl institutions`")
	bankLogin.Flags().StringVar(&login.Username, "username", "", "Online banking username")
	bankLogin.Flags().StringVar(&login.Password, "password", "", "Online banking password")

	var accessToken, answer string
	verifyMFA := &cobra.Command{
		Use:   "verify-mfa",
		Short: "Answer the MFA question of a pending bank login",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.VerifyMFA(a.context(), accessToken, answer)
			if err != nil {
				return errors.Wrap(err, "verify mfa")
			}
			return a.print(result)
		},
	}
	verifyMFA.Flags().StringVar(&accessToken, "access-token", "", "Access token returned by bank-login")
	verifyMFA.Flags().StringVar(&answer, "answer", "", "Answer to the MFA question")

	var amounts []float64
	verifyMicro := &cobra.Command{
		Use:   "verify-micro NODE_ID",
		Short: "Confirm the micro deposits sent to a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.Nodes().VerifyMicroDeposits(a.context(), args[0], amounts...)
			if err != nil {
				return errors.Wrapf(err, "verify micro deposits of node %s", args[0])
			}
			return a.print(result)
		},
	}
	verifyMicro.Flags().Float64SliceVar(&amounts, "amount", nil, "Deposit amount, repeatable")

	cmd.AddCommand(list, get, del, addBank, bankLogin, verifyMFA, verifyMicro)
	return cmd
}
