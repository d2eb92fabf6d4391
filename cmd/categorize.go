package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadforge/internal/model"
)

var (
	categorizeOutput  string
	categorizeProfile string
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <contacts.json>",
	Short: "Categorize enriched contacts against a business profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read contacts")
		}
		var contacts []model.Contact
		if err := json.Unmarshal(data, &contacts); err != nil {
			return eris.Wrap(err, "parse contacts")
		}
		if len(contacts) == 0 {
			return eris.New("no contacts to categorize")
		}

		profile, err := readProfile(categorizeProfile)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		zap.L().Info("categorizing contacts", zap.Int("count", len(contacts)))
		categorized := env.Categorizer.CategorizeAll(ctx, contacts, profile)

		return writeContactsJSON(categorizeOutput, categorized)
	},
}

func init() {
	categorizeCmd.Flags().StringVarP(&categorizeOutput, "output", "o", "", "output JSON path (default stdout)")
	categorizeCmd.Flags().StringVar(&categorizeProfile, "profile", "", "business profile JSON path")
	rootCmd.AddCommand(categorizeCmd)
}
