package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"growcore/internal/core"
	"growcore/internal/education"
	"growcore/internal/tracker"
)

func newTasksCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List plants due for watering or feeding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := core.OpenKVStore(cmd.Context(), a.cfg.Storage)
			if err != nil {
				return err
			}
			defer closeStore()
			svc := core.NewService(store, core.WithLogger(a.logger.Named("service")))
			due, err := svc.DueTasks(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(due)
			}
			return printDue(cmd.OutOrStdout(), due)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printDue(w io.Writer, due tracker.Due) error {
	if len(due.Watering) == 0 && len(due.Feeding) == 0 {
		_, err := fmt.Fprintln(w, "Nothing due.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tPLANT\tLAST DONE")
	for _, t := range due.Watering {
		fmt.Fprintf(tw, "water\t%s\t%s\n", t.Name, tracker.CareLabel(t.Days))
	}
	for _, t := range due.Feeding {
		fmt.Fprintf(tw, "feed\t%s\t%s\n", t.Name, tracker.CareLabel(t.Days))
	}
	return tw.Flush()
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search the education articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := education.Open(a.cfg.Education.Path, a.logger.Named("education"))
			if err != nil {
				return err
			}
			res := lib.Search(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Count)
			for _, item := range res.Items {
				fmt.Fprintf(out, "%s\t[%s] %s\n", item.ID, item.Badge, item.Title)
			}
			return nil
		},
	}
}
