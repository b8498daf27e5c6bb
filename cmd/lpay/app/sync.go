package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenpay/go-lumenpay/log"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull new incoming payments into the local database",
	Long: `Walk the wallet account's transaction feed since the last synced
cursor, record every incoming payment and update the per-memo
balances. The pass is atomic: either all new records land in the
database or none do.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		res, err := s.Sync.RunPass(s.Account.Address, s.Store)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("processed %d incoming payments, cursor %s\n", res.Processed, res.NewCursor)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name*domain>",
	Short: "Resolve a federated address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		if s.Federation == nil {
			log.Fatalf("no federation server configured")
		}
		addr, err := s.Federation.Resolve(args[0])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("AccountID: %s\n", addr.AccountID)
		if addr.Memo != "" {
			fmt.Printf("Memo: %s\n", addr.Memo)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resolveCmd)
}
