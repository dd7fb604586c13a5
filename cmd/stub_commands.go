package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var workloadPath string

// generateStatemachineCmd and simulateAcceleratorCmd validate their
// inputs the same way generate-accelerator does, but hand off to
// external collaborators (HDL emission, behavioral simulation) that
// this module does not implement; they report that plainly rather than
// panicking.
var generateStatemachineCmd = &cobra.Command{
	Use:   "generate-statemachine",
	Short: "Emit the HDL control state machine for a datapath (external collaborator)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateDatapathInputs(); err != nil {
			return err
		}
		return errors.New("generate-statemachine: HDL emission is not implemented for this scope")
	},
}

var simulateAcceleratorCmd = &cobra.Command{
	Use:   "simulate-accelerator",
	Short: "Run a behavioral simulation of a datapath against a workload (external collaborator)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateDatapathInputs(); err != nil {
			return err
		}
		return errors.New("simulate-accelerator: behavioral simulation is not implemented for this scope")
	},
}

func validateDatapathInputs() error {
	if _, err := loadHWBFile(mlbPath); err != nil {
		return err
	}
	if _, err := loadHWBFile(weightBufPath); err != nil {
		return err
	}
	if _, err := loadHWBFile(inputBufPath); err != nil {
		return err
	}
	if _, err := loadHWBFile(outputBufPath); err != nil {
		return err
	}
	if _, err := loadProjectionFiles(projectionPath); err != nil {
		return err
	}
	if workloadPath != "" {
		if _, err := loadWorkloadFile(workloadPath); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	addDatapathFlags(generateStatemachineCmd.Flags())
	generateStatemachineCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a workload YAML file (optional)")

	addDatapathFlags(simulateAcceleratorCmd.Flags())
	simulateAcceleratorCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a workload YAML file (optional)")
}
