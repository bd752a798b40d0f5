package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/square-menu/pkg/catalog"
)

const viewTimeout = 2 * time.Minute

type viewFlags struct {
	location string
	fresh    bool
	json     bool
}

func (f *viewFlags) register(cmd *cobra.Command, needsLocation bool) {
	if needsLocation {
		cmd.Flags().StringVarP(&f.location, "location", "l", "", "Square location id")
		cmd.MarkFlagRequired("location")
	}
	cmd.Flags().BoolVar(&f.fresh, "fresh", false, "Bypass the cache")
	cmd.Flags().BoolVarP(&f.json, "json", "j", false, "Output as JSON")
}

func (a *app) locationsCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List active locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalogService(flags.fresh)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, viewTimeout)
			defer cancel()

			locations, err := svc.Locations(ctx)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(out(cmd), locations)
			}

			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCURRENCY\tTIMEZONE")
			for _, loc := range locations {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", loc.ID, loc.Name, loc.Currency, loc.Timezone)
			}
			return w.Flush()
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (a *app) menuCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the menu for a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalogService(flags.fresh)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, viewTimeout)
			defer cancel()

			menu, err := svc.Menu(ctx, flags.location)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(out(cmd), menu)
			}
			return printMenu(out(cmd), menu)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func printMenu(wr io.Writer, menu *catalog.Menu) error {
	w := tabwriter.NewWriter(wr, 0, 4, 2, ' ', 0)
	current := ""
	for _, item := range menu.Items {
		if item.Category != current {
			current = item.Category
			fmt.Fprintf(w, "%s\n", current)
		}
		for _, v := range item.Variations {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", item.Name, v.Name, v.PriceFormatted)
		}
		if len(item.Variations) == 0 {
			fmt.Fprintf(w, "  %s\t\t\n", item.Name)
		}
	}
	return w.Flush()
}

func (a *app) categoriesCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show item counts per category for a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalogService(flags.fresh)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, viewTimeout)
			defer cancel()

			categories, err := svc.Categories(ctx, flags.location)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(out(cmd), categories)
			}

			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tITEMS")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Name, c.ItemCount)
			}
			return w.Flush()
		},
	}
	flags.register(cmd, true)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
