package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"qbsync/cmd/client/cmd/types"
	"qbsync/internal/domain/resource"
)

var TypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Поддерживаемые типы сущностей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		supported := app.Types()
		if types.JSONOutput(cmd) {
			return types.PrintJSON(supported)
		}

		for _, t := range supported {
			endpoint, _ := resource.Type(t).Endpoint()
			fmt.Printf("%-16s %s\n", t, endpoint)
		}
		return nil
	},
}
