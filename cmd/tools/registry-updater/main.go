// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lookup-workers/pkg/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var path string

	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&path, "path", "configs/activity-registry.json", "Path to registry file")

	root.AddCommand(newAddCmd(&path), newUpdateCmd(&path), newValidateCmd(&path))
	return root
}

func newAddCmd(path *string) *cobra.Command {
	var a registry.Activity

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadOrEmpty(*path)
			if err != nil {
				return err
			}
			a.InputSchema = map[string]interface{}{}
			a.OutputSchema = map[string]interface{}{}
			a.ErrorCodes = []string{}
			a.Workflows = []string{}
			a.Tags = []string{}
			if err := reg.Add(a); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry invalid after add: %w", err)
			}
			if err := reg.Save(*path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.ID, "id", "", "Activity ID (e.g., lookup.record.find)")
	f.StringVar(&a.DisplayName, "displayName", "", "Display name")
	f.StringVar(&a.Description, "description", "", "Description")
	f.StringVar(&a.Category, "category", "", "Category (e.g., lookup)")
	f.StringVar(&a.TaskType, "taskType", "", "Camunda task type (e.g., record-lookup)")
	f.StringVar(&a.Version, "version", "1.0.0", "Version")
	f.StringVar(&a.ImplementationStatus, "status", "planned", "Implementation status (planned, in-progress, completed, verified)")
	f.StringVar(&a.Timeout, "timeout", "45s", "Job timeout")
	for _, name := range []string{"id", "displayName", "description", "category", "taskType"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCmd(path *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change one field of a registered activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(id, field, value); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry invalid after update: %w", err)
			}
			if err := reg.Save(*path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s: %s = %s\n", id, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, timeout, retries, ...)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	for _, name := range []string{"id", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the registry for missing fields, bad IDs and broken schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry is valid (%d activities)\n", len(reg.Activities))
			return nil
		},
	}
}

func loadOrEmpty(path string) (*registry.ActivityRegistry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &registry.ActivityRegistry{Version: "1.0.0"}, nil
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}
