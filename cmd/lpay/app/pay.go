package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenpay/go-lumenpay/log"
	"github.com/lumenpay/go-lumenpay/pay"
)

var (
	payAsset string
	payMemo  string
)

var payCmd = &cobra.Command{
	Use:   "pay <destination> <amount>",
	Short: "Send a payment to a destination account",
	Long: `Send a payment to a destination account or to a federated address of
the form name*domain. An unfunded destination is activated with a
create-account transaction when the asset is native and the amount
covers the network minimum.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		dest, memo := args[0], payMemo
		if strings.Contains(dest, "*") {
			if s.Federation == nil {
				log.Fatalf("no federation server configured")
			}
			resolved, err := s.Federation.Resolve(dest)
			if err != nil {
				log.Fatal(err)
			}
			dest = resolved.AccountID
			if memo == "" {
				memo = resolved.Memo
			}
		}

		a, err := s.Catalog.Resolve(payAsset)
		if err != nil {
			log.Fatalf("unknown asset %s: %v", payAsset, err)
		}

		out, err := s.Pay.SendPayment(dest, args[1], memo, a)
		if err != nil {
			log.Fatal(err)
		}
		printOutcome(out)
	},
}

var createAccountCmd = &cobra.Command{
	Use:   "create-account <destination> <amount>",
	Short: "Activate a new account with a starting balance",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		out, err := s.Pay.CreateAccount(args[0], args[1], payMemo)
		if err != nil {
			log.Fatal(err)
		}
		printOutcome(out)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet account's balances",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		state := s.Pay.State()
		if err := state.Load(true); err != nil {
			log.Fatal(err)
		}
		balances, err := state.BalanceFull()
		if err != nil {
			log.Fatal(err)
		}
		for name, amt := range balances {
			fmt.Printf("%s: %s\n", name, amt)
		}
	},
}

var trustLimit string

var trustCmd = &cobra.Command{
	Use:   "trust <asset-code>",
	Short: "Accept an issued asset from the configured catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		a, err := s.Catalog.Resolve(args[0])
		if err != nil {
			log.Fatalf("unknown asset %s: %v", args[0], err)
		}
		out, err := s.Pay.AcceptAsset(a, trustLimit)
		if err != nil {
			log.Fatal(err)
		}
		printOutcome(out)
	},
}

var txinfoMemo string

var txinfoCmd = &cobra.Command{
	Use:   "txinfo <tx-id>",
	Short: "Look up a confirmed transaction",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		rec, err := s.Pay.GetTransaction(args[0], txinfoMemo)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Hash: %s\nSource: %s\nMemo: %s\nCreated: %s\nOps: %d\n",
			rec.Hash, rec.Source, rec.Memo, rec.CreatedAt, len(rec.Ops))
	},
}

func printOutcome(out pay.Outcome) {
	switch {
	case out.Applied():
		fmt.Printf("OK %s\n", out.Hash)
	case out.OK():
		fmt.Println("OK nothing to do")
	default:
		fmt.Printf("REJECTED %s\n", out.Code)
	}
}

func init() {
	payCmd.Flags().StringVarP(&payAsset, "asset", "a", "LUM", "asset code to send")
	payCmd.Flags().StringVarP(&payMemo, "memo", "m", "", "text memo of the payment")
	createAccountCmd.Flags().StringVarP(&payMemo, "memo", "m", "", "text memo of the transaction")
	trustCmd.Flags().StringVarP(&trustLimit, "limit", "l", "1000000000", "trustline limit")
	txinfoCmd.Flags().StringVarP(&txinfoMemo, "memo", "m", "", "require the memo to match")

	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(createAccountCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(trustCmd)
	rootCmd.AddCommand(txinfoCmd)
}
