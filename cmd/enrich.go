package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadforge/internal/model"
)

var (
	enrichOutput  string
	enrichProfile string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <connections.csv>",
	Short: "Enrich a LinkedIn connections export",
	Long:  "Reads a LinkedIn connections CSV export, enriches every contact via web search and Claude, and writes the results as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		contacts, err := readConnectionsCSV(args[0])
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			return eris.New("no contacts found in export")
		}

		profile, err := readProfile(enrichProfile)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		zap.L().Info("enriching contacts", zap.Int("count", len(contacts)))
		enriched := env.Enricher.EnrichAll(ctx, contacts, profile)

		return writeContactsJSON(enrichOutput, enriched)
	},
}

// readConnectionsCSV parses a LinkedIn connections export. LinkedIn prepends
// a free-text notes preamble before the header row, so rows are skipped until
// the "First Name" header appears.
func readConnectionsCSV(path string) ([]model.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open export")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var header []string
	for {
		row, err := r.Read()
		if err != nil {
			return nil, eris.Wrap(err, "read export header")
		}
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "First Name") {
			header = row
			break
		}
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var contacts []model.Contact
	id := 1
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		first := field(row, "first name")
		last := field(row, "last name")
		if first == "" && last == "" {
			continue
		}

		c := model.NewContact(id,
			strings.TrimSpace(first+" "+last),
			field(row, "company"),
			field(row, "position"),
			field(row, "email address"),
		)
		contacts = append(contacts, c)
		id++
	}
	return contacts, nil
}

// readProfile loads the operator's business profile JSON, or returns an
// empty profile when no path is given.
func readProfile(path string) (model.UserProfile, error) {
	var profile model.UserProfile
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, eris.Wrap(err, "read profile")
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, eris.Wrap(err, "parse profile")
	}
	return profile, nil
}

func writeContactsJSON(path string, contacts []model.Contact) error {
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal contacts")
	}

	if path == "" {
		os.Stdout.Write(data)
		os.Stdout.WriteString("\n")
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "write output")
	}
	zap.L().Info("wrote contacts", zap.String("path", path), zap.Int("count", len(contacts)))
	return nil
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "output JSON path (default stdout)")
	enrichCmd.Flags().StringVar(&enrichProfile, "profile", "", "business profile JSON path")
	rootCmd.AddCommand(enrichCmd)
}
