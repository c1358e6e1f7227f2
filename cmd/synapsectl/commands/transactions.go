package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synapsepay/go-synapse-client/core"
	"github.com/synapsepay/go-synapse-client/resources"
)

func NewCmdTransactions(a *app) *cobra.Command {
	var fromNode string
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"trans"},
		Short:   "Manage the transactions of one node of the logged in user",
	}
	cmd.PersistentFlags().StringVar(&fromNode, "node", "", "Node the transactions belong to")
	_ = cmd.MarkPersistentFlagRequired("node")

	lf := &ListFlags{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			trans := us.Node(fromNode).Transactions()
			if lf.All {
				all, err := collect(trans.Iter(a.context(), lf.Options()))
				if err != nil {
					return errors.Wrap(err, "list transactions")
				}
				return a.print(all)
			}
			result, err := trans.All(a.context(), lf.Options())
			if err != nil {
				return errors.Wrap(err, "list transactions")
			}
			return a.printList(result, "trans")
		},
	}
	lf.register(list.Flags())

	get := &cobra.Command{
		Use:   "get TRANS_ID",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.Node(fromNode).Transaction(args[0]).Find(a.context())
			if err != nil {
				return errors.Wrapf(err, "get transaction %s", args[0])
			}
			return a.print(result)
		},
	}

	var (
		file string
		note string
		req  resources.CreateTransactionRequest
	)
	send := &cobra.Command{
		Use:   "send",
		Short: "Send money from the node",
		Long: `Send money from the node. Without --idempotency-key a fresh key is generated. Failed
calls report the key so they can be retried with it.`,
		Example: `  synapsectl transactions send --node n1 --to n2 --to-type SYNAPSE-US --amount 10.10 --ip 192.168.0.1`,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if file != "" {
				if err := readRequestFile(file, &req); err != nil {
					return err
				}
			}
			if note != "" {
				if req.Extra == nil {
					req.Extra = core.Params{}
				}
				req.Extra["note"] = note
			}
			if req.IdempotencyKey == "" {
				req.IdempotencyKey = core.NewIdempotencyKey()
			}
			us, err := a.userSession()
			if err != nil {
				return err
			}
			a.logger.Info("sending money",
				zap.String("node", fromNode),
				zap.String("to", req.ToNodeID),
				zap.Float64("amount", req.Amount),
				zap.String("idempotency_key", req.IdempotencyKey))
			result, err := us.SendMoney(a.context(), resources.SendMoneyRequest{
				FromNodeID:               fromNode,
				CreateTransactionRequest: req,
			})
			if err != nil {
				return errors.Wrapf(err, "send money (idempotency key %s)", req.IdempotencyKey)
			}
			return a.print(result)
		},
	}
	send.Flags().StringVarP(&file, "file", "f", "", "YAML request file, - for stdin")
	send.Flags().StringVar(&req.ToNodeID, "to", "", "Destination node")
	send.Flags().StringVar(&req.ToNodeType, "to-type", resources.NodeTypeSynapseUS, "Destination node type")
	send.Flags().Float64Var(&req.Amount, "amount", 0, "Amount")
	send.Flags().StringVar(&req.Currency, "currency", "USD", "Currency")
	send.Flags().StringVar(&req.IPAddress, "ip", "", "IP address of the sender")
	send.Flags().StringVar(&req.IdempotencyKey, "idempotency-key", "", "Idempotency key, generated when empty")
	send.Flags().StringVar(&note, "note", "", "Transaction note")

	var comment string
	commentCmd := &cobra.Command{
		Use:   "comment TRANS_ID",
		Short: "Comment a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.Node(fromNode).Transaction(args[0]).Comment(a.context(), comment)
			if err != nil {
				return errors.Wrapf(err, "comment transaction %s", args[0])
			}
			return a.print(result)
		},
	}
	commentCmd.Flags().StringVar(&comment, "comment", "", "Comment text")

	cancel := &cobra.Command{
		Use:   "cancel TRANS_ID",
		Short: "Cancel a transaction that has not settled",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			us, err := a.userSession()
			if err != nil {
				return err
			}
			result, err := us.Node(fromNode).Transaction(args[0]).Delete(a.context())
			if err != nil {
				return errors.Wrapf(err, "cancel transaction %s", args[0])
			}
			return a.print(result)
		},
	}

	cmd.AddCommand(list, get, send, commentCmd, cancel)
	return cmd
}
