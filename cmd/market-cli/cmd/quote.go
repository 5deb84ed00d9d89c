package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"market-core/pkg/fees"
)

var (
	quoteFeeBps      int64
	quoteRoyaltyBps  int64
	quoteNoRoyalties bool
	quoteQuantity    uint64
)

// quoteCmd previews the settlement split for a sale amount without touching
// the database; the same fees package runs inside the settlement transaction.
var quoteCmd = &cobra.Command{
	Use:   "quote <amount>",
	Short: "Preview the royalty / fee / proceeds split for a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		if err := fees.ValidateFeeRate(quoteFeeBps); err != nil {
			return fmt.Errorf("fee rate out of range (max %d bps)", fees.MaxFeeRateBps)
		}
		if err := fees.ValidateRoyaltyRate(quoteRoyaltyBps); err != nil {
			return fmt.Errorf("royalty rate out of range (max %d bps)", fees.MaxRoyaltyBps)
		}

		royalty, marketFee, proceeds := fees.Split(amount, quoteFeeBps, quoteRoyaltyBps, quoteNoRoyalties)
		fmt.Printf("amount:           %s\n", amount)
		if quoteQuantity > 1 {
			fmt.Printf("unit price:       %s\n", fees.UnitPrice(amount, quoteQuantity))
		}
		fmt.Printf("royalty:          %s (%d bps)\n", royalty, quoteRoyaltyBps)
		fmt.Printf("marketplace fee:  %s (%d bps)\n", marketFee, quoteFeeBps)
		fmt.Printf("seller proceeds:  %s\n", proceeds)
		return nil
	},
}

func init() {
	quoteCmd.Flags().Int64Var(&quoteFeeBps, "fee-bps", 250, "marketplace fee rate in basis points")
	quoteCmd.Flags().Int64Var(&quoteRoyaltyBps, "royalty-bps", 0, "collection royalty rate in basis points")
	quoteCmd.Flags().BoolVar(&quoteNoRoyalties, "no-royalties", false, "simulate the global royalty kill switch")
	quoteCmd.Flags().Uint64Var(&quoteQuantity, "quantity", 1, "listing quantity, prints the unit price when > 1")
	rootCmd.AddCommand(quoteCmd)
}
