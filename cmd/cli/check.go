package main

import (
	"fmt"
	"io"
	"sort"

	"alocdash/app"
	"alocdash/domain/allocation"
	"alocdash/internal/errors"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	var sources app.Sources
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load both workbooks and list the rows that were ignored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load()
			if err != nil {
				return err
			}
			resolved, err := c.Dashboard.ResolveSources(sources)
			if err != nil {
				return err
			}
			snapshot, err := c.Dashboard.Load(cmd.Context(), resolved)
			if err != nil {
				return err
			}

			dropped := droppedRows(c.Dashboard, snapshot)
			writeCheck(cmd.OutOrStdout(), snapshot, dropped)
			if strict && len(dropped) > 0 {
				return errors.MissingReference(fmt.Sprintf("%d linha(s) ignorada(s)", len(dropped)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sources.AllocationPath, "alocacao", "", "Allocation workbook, relative to the data directory")
	cmd.Flags().StringVar(&sources.HierarchyPath, "totais", "", "Hierarchy workbook, relative to the data directory")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any row was ignored")
	return cmd
}

// droppedRows merges the rows dropped for every role; hierarchy rows are
// reported once even though each role's report carries them
func droppedRows(service *app.DashboardService, snapshot *app.Snapshot) []allocation.DroppedRow {
	seen := make(map[allocation.DroppedRow]bool)
	var out []allocation.DroppedRow
	for _, role := range allocation.Roles {
		for _, d := range service.Report(snapshot, role).Dropped {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source > out[j].Source
		}
		return out[i].Row < out[j].Row
	})
	return out
}

func writeCheck(w io.Writer, snapshot *app.Snapshot, dropped []allocation.DroppedRow) {
	d := snapshot.Directory
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Carga %s", snapshot.LoadID.Short())))
	fmt.Fprintf(w, "Base de totais: %d linhas, %d GREs, %d polos, %d escolas\n",
		len(snapshot.Hierarchy), len(d.Regions), len(d.Hubs), len(d.Schools))
	fmt.Fprintf(w, "Base de alocação: %d registros\n", len(snapshot.Records))

	if len(dropped) == 0 {
		fmt.Fprintln(w, "Nenhuma linha ignorada.")
		return
	}
	t := newTable("Base", "Linha", "Motivo")
	for _, row := range dropped {
		t.Row(row.Source, fmt.Sprint(row.Row), row.Reason)
	}
	fmt.Fprintln(w, t.Render())
}
