package main

import (
	"fmt"

	"alocdash/internal/testkit"

	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	config := testkit.DefaultNetworkConfig()
	var fixed bool

	cmd := &cobra.Command{
		Use:   "sample [dir]",
		Short: "Write a synthetic pair of workbooks to try the dashboard with",
		Long: `Write a hierarchy workbook and an allocation report with the default
file names into dir (default: current directory).

Example: alocdash sample ./dados --regions 6 --seed 7`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			network := testkit.SampleNetwork()
			if !fixed {
				network = testkit.NewNetworkGenerator(config).Generate()
			}
			files, err := testkit.WriteNetwork(dir, network)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d linhas)\n", files.Hierarchy, len(network.Hierarchy)-1)
			fmt.Fprintf(out, "%s (%d registros)\n", files.Allocation, len(network.Allocation)-2)
			return nil
		},
	}

	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic output")
	cmd.Flags().IntVar(&config.Regions, "regions", config.Regions, "Number of GREs")
	cmd.Flags().IntVar(&config.HubsPerRegion, "hubs", config.HubsPerRegion, "Polos per GRE")
	cmd.Flags().IntVar(&config.SchoolsPerHub, "schools", config.SchoolsPerHub, "Schools per polo")
	cmd.Flags().Float64Var(&config.DirectorFillRate, "director-rate", config.DirectorFillRate, "Share of schools with a director")
	cmd.Flags().Float64Var(&config.CoordinatorFillRate, "coordinator-rate", config.CoordinatorFillRate, "Share of schools with a coordinator")
	cmd.Flags().BoolVar(&fixed, "exemplo", false, "Write the small fixed example instead of a generated network")
	return cmd
}
