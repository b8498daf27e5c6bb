package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenpay/go-lumenpay/log"
)

var offerCmd = &cobra.Command{
	Use:   "offer",
	Short: "Manage exchange offers of the wallet account",
}

var offerCreateCmd = &cobra.Command{
	Use:   "create <selling> <buying> <price> <amount>",
	Short: "Place a new exchange offer",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		selling, err := s.Catalog.Resolve(args[0])
		if err != nil {
			log.Fatalf("unknown asset %s: %v", args[0], err)
		}
		buying, err := s.Catalog.Resolve(args[1])
		if err != nil {
			log.Fatalf("unknown asset %s: %v", args[1], err)
		}
		hash, err := s.Offers.CreateOffer(selling, buying, args[2], args[3])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("OK %s\n", hash)
	},
}

var offerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account's open offers",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		offers, err := s.Offers.GetOffers()
		if err != nil {
			log.Fatal(err)
		}
		for _, o := range offers {
			fmt.Printf("%s: selling %s %s for %s at %s\n",
				o.ID, o.Amount, o.Selling.String(), o.Buying.String(), o.Price)
		}
	},
}

var offerDeleteCmd = &cobra.Command{
	Use:   "delete <offer-id>",
	Short: "Cancel an open offer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		hash, err := s.Offers.DeleteOffer(args[0])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("OK %s\n", hash)
	},
}

var offerDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Cancel every open offer, best effort",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		defer s.Close()

		hashes, failed, err := s.Offers.DeleteAllOffers()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("cancelled %d offers\n", len(hashes))
		for _, id := range failed {
			fmt.Printf("failed to cancel offer %s\n", id)
		}
	},
}

func init() {
	offerCmd.AddCommand(offerCreateCmd)
	offerCmd.AddCommand(offerListCmd)
	offerCmd.AddCommand(offerDeleteCmd)
	offerCmd.AddCommand(offerDeleteAllCmd)
	rootCmd.AddCommand(offerCmd)
}
