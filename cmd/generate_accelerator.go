package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tiledml/accelgen/accel"
)

var (
	mlbPath        string
	weightBufPath  string
	inputBufPath   string
	outputBufPath  string
	projectionPath []string
)

var generateAcceleratorCmd = &cobra.Command{
	Use:   "generate-accelerator",
	Short: "Elaborate a datapath from an MLB spec, three buffer specs, and one or more projections",
	RunE: func(cmd *cobra.Command, args []string) error {
		mlbSpec, err := loadHWBFile(mlbPath)
		if err != nil {
			return err
		}
		weightSpec, err := loadHWBFile(weightBufPath)
		if err != nil {
			return err
		}
		inputSpec, err := loadHWBFile(inputBufPath)
		if err != nil {
			return err
		}
		outputSpec, err := loadHWBFile(outputBufPath)
		if err != nil {
			return err
		}
		projections, err := loadProjectionFiles(projectionPath)
		if err != nil {
			return err
		}

		logrus.Infof("elaborating datapath: mlb=%s projections=%d", mlbSpec.BlockName, len(projections))
		graph, warnings, err := accel.BuildDatapath(accel.DatapathConfig{
			MLBSpec:     mlbSpec,
			WeightSpec:  weightSpec,
			InputSpec:   inputSpec,
			OutputSpec:  outputSpec,
			Projections: projections,
		})
		if err != nil {
			return fmt.Errorf("elaboration failed: %w", err)
		}
		for _, w := range warnings {
			logrus.Warnf("%s: %s", w.Kind, w.Msg)
		}
		fmt.Print(accel.SummaryTable(graph))
		return nil
	},
}

func addDatapathFlags(fs *pflag.FlagSet) {
	fs.StringVar(&mlbPath, "mlb", "", "Path to the MLB hwb spec YAML file")
	fs.StringVar(&weightBufPath, "weight-buf", "", "Path to the weight buffer hwb spec YAML file")
	fs.StringVar(&inputBufPath, "input-buf", "", "Path to the input buffer hwb spec YAML file")
	fs.StringVar(&outputBufPath, "output-buf", "", "Path to the output buffer hwb spec YAML file")
	fs.StringArrayVar(&projectionPath, "projection", nil, "Path to a projection YAML file (repeatable)")
}

func init() {
	addDatapathFlags(generateAcceleratorCmd.Flags())
	generateAcceleratorCmd.MarkFlagRequired("mlb")
	generateAcceleratorCmd.MarkFlagRequired("weight-buf")
	generateAcceleratorCmd.MarkFlagRequired("input-buf")
	generateAcceleratorCmd.MarkFlagRequired("output-buf")
	generateAcceleratorCmd.MarkFlagRequired("projection")
}
