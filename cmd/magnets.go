package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var magnetsLimit int

var magnetsCmd = &cobra.Command{
	Use:   "magnets",
	Short: "List stored lead magnets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		magnets, err := st.ListLeadMagnets(ctx, magnetsLimit)
		if err != nil {
			return err
		}
		if len(magnets) == 0 {
			fmt.Println("no lead magnets stored")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tTITLE\tDOWNLOADS\tCREATED")
		for _, m := range magnets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				m.ID, m.Type, m.Title, m.Downloads, m.Created.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func init() {
	magnetsCmd.Flags().IntVar(&magnetsLimit, "limit", 50, "maximum magnets to list")
	rootCmd.AddCommand(magnetsCmd)
}
