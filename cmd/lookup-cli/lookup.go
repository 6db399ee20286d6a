package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lookup-workers/internal/lookup/query"
	"lookup-workers/internal/models"
)

func newPersonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "person SURNAME GIVEN PATRONYMIC DATE|YEAR",
		Short:   "Look up a person by full name and birth date or year",
		Example: "  lookup-cli person Иванов Петр Петрович 06.04.1994",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, models.LookupModePerson, strings.Join(args, " "))
		},
	}
}

func newPhoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "phone NUMBER",
		Short:   "Look up a phone number",
		Example: "  lookup-cli phone +79250000000",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, models.LookupModePhone, strings.Join(args, " "))
		},
	}
}

func runLookup(cmd *cobra.Command, opts *rootOptions, mode models.LookupMode, text string) error {
	svc, _, err := opts.buildService()
	if err != nil {
		return err
	}

	out, err := svc.Run(cmd.Context(), mode, text)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// newClassifyCmd classifies input without calling the lookup service.
func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify TEXT",
		Short: "Show how input is classified and normalized",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Classify(strings.Join(args, " "))
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "kind: %s\n", q.Kind())
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "normalized: %s\n", q.Normalized())
			fmt.Fprintf(w, "country: %t\n", q.NeedCountry())
			return nil
		},
	}
}
