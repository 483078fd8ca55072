package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wflang/wfl/internal/stdlib"
	"github.com/wflang/wfl/internal/types"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "list every registered stdlib action by module",
	RunE: func(c *cobra.Command, args []string) error {
		reg := types.NewRegistry()
		modules := stdlib.NewStandardRegistry(reg)
		for _, cat := range []stdlib.Category{
			stdlib.CategoryCore, stdlib.CategoryMath, stdlib.CategoryRandom,
			stdlib.CategoryText, stdlib.CategoryList, stdlib.CategoryTime,
			stdlib.CategoryFilesystem, stdlib.CategoryCrypto, stdlib.CategoryJSON,
			stdlib.CategoryNet, stdlib.CategorySubprocess, stdlib.CategoryDatabase,
		} {
			names := modules.Names(cat)
			if len(names) == 0 {
				continue
			}
			fmt.Printf("%s:\n", cat)
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
		}
		return nil
	},
}
