package cmd

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"market-core/pkg/crypto_util"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Deterministic derivations used by the settlement core",
}

// deriveCollectionCmd reproduces the factory's address derivation so an
// operator can predict the address of the next collection a creator deploys.
var deriveCollectionCmd = &cobra.Command{
	Use:   "collection <creator> <nonce>",
	Short: "Derive a collection address from creator and registry nonce",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid creator address %q", args[0])
		}
		nonce, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid nonce %q: %w", args[1], err)
		}
		fmt.Println(crypto_util.DeriveCollectionAddress(args[0], nonce))
		return nil
	},
}

var deriveListingCmd = &cobra.Command{
	Use:   "listing <collection> <token-id> <seller>",
	Short: "Derive the listing key for (collection, tokenId, seller)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) || !common.IsHexAddress(args[2]) {
			return fmt.Errorf("collection and seller must be hex addresses")
		}
		tokenID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id %q: %w", args[1], err)
		}
		fmt.Println(crypto_util.DeriveListingKey(args[0], tokenID, args[2]))
		return nil
	},
}

func init() {
	deriveCmd.AddCommand(deriveCollectionCmd)
	deriveCmd.AddCommand(deriveListingCmd)
	rootCmd.AddCommand(deriveCmd)
}
