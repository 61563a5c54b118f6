package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"invoiceflow/internal/config"
	"invoiceflow/internal/vendors"
)

func newVendorsCommand(configFlag *string) *cobra.Command {
	var vendorsFile string

	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List the canonical vendor registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if vendorsFile != "" {
				cfg.Paths.VendorsFile = vendorsFile
			}

			reg, err := vendors.NewRegistrar(cfg.Paths.VendorsFile).Snapshot()
			if err != nil {
				return err
			}
			if len(reg.Vendors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No vendors registered yet.")
				return nil
			}

			rows := make([][]string, 0, len(reg.Vendors))
			for _, v := range reg.Vendors {
				rows = append(rows, []string{
					v.Name,
					strconv.Itoa(len(v.Aliases)),
					strings.Join(v.Aliases, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Vendor", "#", "Aliases"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().StringVar(&vendorsFile, "vendors-file", "", "Path to the vendor registry file")
	return cmd
}
