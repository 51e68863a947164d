package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pravobot/pravobot/internal/cache"
	"github.com/pravobot/pravobot/internal/config"
	"github.com/pravobot/pravobot/internal/registry"
	"github.com/pravobot/pravobot/internal/registry/dadata"
	"github.com/pravobot/pravobot/internal/scoring"
	"github.com/pravobot/pravobot/internal/taxid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <inn>",
	Short: "Check a counterparty by tax identifier and print its risk score.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, args[0])
	},
}

func runLookup(cmd *cobra.Command, id string) error {
	id = strings.TrimSpace(id)
	if !taxid.Validate(id) {
		return &exitError{code: 2, err: fmt.Errorf("tax id %s failed the checksum", id)}
	}

	cfg, err := config.LoadOptionalDB()
	if err != nil {
		return err
	}
	if cfg.DadataToken == "" {
		cfg.DadataToken, err = promptToken()
		if err != nil {
			return err
		}
	}

	recordCache := cache.New[string, registry.Record](1, time.Minute)
	client, err := dadata.NewClient(dadata.Config{
		Token:   cfg.DadataToken,
		Secret:  cfg.DadataSecret,
		BaseURL: cfg.DadataBaseURL,
	}, nil, recordCache)
	if err != nil {
		return err
	}

	rec, err := client.FindByTaxID(cmd.Context(), id)
	if errors.Is(err, dadata.ErrNotFound) {
		return &exitError{code: 3, err: fmt.Errorf("no organization found for tax id %s", id)}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printField := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		fmt.Fprintf(out, "%-18s %s\n", label+":", value)
	}
	printField("Tax ID", rec.TaxID)
	printField("Name", rec.Name)
	printField("OGRN", rec.OGRN)
	printField("KPP", rec.KPP)
	printField("Address", rec.Address)
	printField("Director", rec.Director)
	printField("Status", rec.Status)
	printField("Registered", rec.RegistrationDate)

	assessment := scoring.Evaluator{}.Evaluate(rec)
	fmt.Fprintf(out, "\nRisk level: %s\n", assessment.Level)
	for _, reason := range assessment.Reasons {
		fmt.Fprintf(out, "  - %s\n", reason)
	}
	return nil
}

// promptToken reads the DaData API token without echoing it, so the value
// does not end up in shell history or terminal scrollback.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("DADATA_TOKEN is not set and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "DaData API token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}
