package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"alocdash/app"
	"alocdash/domain/allocation"
	"alocdash/internal/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

type reportFlags struct {
	role    string
	region  string
	hub     string
	order   string
	sources app.Sources
	asJSON  bool
}

func newReportCmd(opts *options) *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print allocation percentages per GRE, or per Polo and Escola of one GRE",
		Long: `Print the allocation report for one role.

Without --gre the report lists every GRE. With --gre it lists the polos of that
GRE, and with --polo as well it lists the schools of that polo.

Example: alocdash report --funcao coordenador --gre "GRE 1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load()
			if err != nil {
				return err
			}
			role, err := allocation.ParseRole(flags.role)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			dashboard, err := c.Dashboard.Dashboard(cmd.Context(), flags.sources, role)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), dashboard)
			}
			return writeReport(cmd.OutOrStdout(), dashboard, flags)
		},
	}

	cmd.Flags().StringVar(&flags.role, "funcao", string(allocation.RoleDirector), "Role: diretor|coordenador")
	cmd.Flags().StringVar(&flags.region, "gre", "", "Detail the polos of this GRE")
	cmd.Flags().StringVar(&flags.hub, "polo", "", "Detail the schools of this polo (requires --gre)")
	cmd.Flags().StringVar(&flags.order, "ordem", "percentual", "Row order: percentual|origem")
	cmd.Flags().StringVar(&flags.sources.AllocationPath, "alocacao", "", "Allocation workbook, relative to the data directory")
	cmd.Flags().StringVar(&flags.sources.HierarchyPath, "totais", "", "Hierarchy workbook, relative to the data directory")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the dashboard as JSON")

	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeReport(w io.Writer, d *app.Dashboard, flags *reportFlags) error {
	if flags.order != "percentual" && flags.order != "origem" {
		return errors.InvalidInput(fmt.Sprintf("ordenação desconhecida: %q", flags.order))
	}
	sorted := flags.order == "percentual"
	report := d.Report

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Alocação de %s: %s (%d de %d)",
		d.Role.Label(), report.Percentage, report.Totals.Filled, report.Totals.Required)))
	for _, p := range d.Progress {
		if p.Placeholder {
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s: %s (base: %s)", p.Label, p.Percentage, p.Source)))
			continue
		}
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s: %s", p.Label, p.Percentage)))
	}
	fmt.Fprintln(w)

	if flags.region == "" {
		if flags.hub != "" {
			return errors.InvalidInput("--polo requer --gre")
		}
		regions := report.Regions
		if sorted {
			regions = allocation.SortRegionsByPercentage(regions)
		}
		t := newTable("GRE", "%", "Alocados", "Exigidos")
		for _, region := range regions {
			t.Row(region.Name, region.Percentage.String(), strconv.Itoa(region.Counts.Filled), strconv.Itoa(region.Counts.Required))
		}
		fmt.Fprintln(w, t.Render())
		writeDropped(w, report.Dropped)
		return nil
	}

	region, ok := report.Region(app.RegionID(flags.region))
	if !ok {
		return errors.NotFound(fmt.Sprintf("GRE %q", flags.region))
	}

	if flags.hub == "" {
		hubs := region.Hubs
		if sorted {
			hubs = allocation.SortHubsByPercentage(hubs)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: %s", region.Name, region.Percentage)))
		t := newTable("Polo", "%", "Alocados", "Exigidos", "Faltam", "Turmas")
		for _, hub := range hubs {
			t.Row(hub.Name, hub.Percentage.String(), strconv.Itoa(hub.Counts.Filled), strconv.Itoa(hub.Counts.Required),
				strconv.Itoa(hub.Counts.Missing()), strconv.Itoa(hub.Classes))
		}
		fmt.Fprintln(w, t.Render())
		return nil
	}

	hub, ok := report.Hub(app.HubID(flags.region, flags.hub))
	if !ok {
		return errors.NotFound(fmt.Sprintf("polo %q na %s", flags.hub, region.Name))
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s / %s: %s, turmas com %s: %d de %d",
		region.Name, hub.Name, hub.Percentage, d.Role.Singular(), hub.ClassesFilled, hub.Classes)))
	t := newTable("Escola", "INEP", "Turmas", d.Role.Singular(), "Situação")
	for _, school := range hub.Schools {
		t.Row(school.Name, school.INEP, strconv.Itoa(school.Classes), school.Person, school.Status.Label(d.Role))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeDropped(w io.Writer, dropped []allocation.DroppedRow) {
	if len(dropped) == 0 {
		return
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d linha(s) ignorada(s); use \"alocdash check\" para detalhes", len(dropped))))
}
