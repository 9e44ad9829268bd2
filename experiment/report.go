// SPDX-License-Identifier: MIT

package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// csvHeader is the column layout written by WriteCSV.
var csvHeader = []string{"breakpoints", "instance", "name", "rule", "status", "solve_time_s", "nodes", "upper", "lower"}

// WriteCSV writes one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Breakpoints),
			strconv.Itoa(r.Instance),
			r.Name,
			r.Rule,
			r.Status.String(),
			strconv.FormatFloat(r.SolveTime.Seconds(), 'f', 6, 64),
			strconv.Itoa(r.Nodes),
			strconv.FormatFloat(r.Upper, 'g', -1, 64),
			strconv.FormatFloat(r.Lower, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteTable prints the summaries as an aligned text table.
func WriteTable(w io.Writer, sums []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "K\trule\truns\tsolved\tmean time\tmean nodes\t")
	for _, s := range sums {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%.1f\t\n",
			s.Breakpoints, s.Rule, s.Runs, s.Solved, s.MeanSolveTime, s.MeanNodes)
	}

	return tw.Flush()
}
