package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tiledml/accelgen/accel/mapper"
)

var (
	mapHWBPath      string
	mapWorkloadPath string
	macBudget       int
	softMode        bool
	preloadOutput   bool
	preloadInput    bool
)

var mapWorkloadCmd = &cobra.Command{
	Use:   "map-workload",
	Short: "Enumerate admissible outer/inner/temporal factorizations of a workload against an hwb spec",
	RunE: func(cmd *cobra.Command, args []string) error {
		hwb, err := loadHWBFile(mapHWBPath)
		if err != nil {
			return err
		}
		workload, err := loadWorkloadFile(mapWorkloadPath)
		if err != nil {
			return err
		}

		var opts []mapper.Option
		if preloadOutput {
			opts = append(opts, mapper.WithPreloadOutput())
		}
		if preloadInput {
			opts = append(opts, mapper.WithPreloadInput())
		}

		logrus.Infof("enumerating mappings: hwb=%s mac_budget=%d soft=%t", hwb.BlockName, macBudget, softMode)
		mappings, throughput, err := mapper.FindMappings(hwb, workload, macBudget, softMode, opts...)
		if err != nil {
			return fmt.Errorf("find_mappings failed: %w", err)
		}
		fmt.Printf("feasible mappings : %d\n", len(mappings))
		fmt.Printf("throughput figure : %d\n", throughput)
		return nil
	},
}

func init() {
	fs := mapWorkloadCmd.Flags()
	fs.StringVar(&mapHWBPath, "hwb", "", "Path to the hwb spec YAML file")
	fs.StringVar(&mapWorkloadPath, "workload", "", "Path to the workload YAML file")
	fs.IntVar(&macBudget, "mac-budget", 0, "MAC budget for the enumerator")
	fs.BoolVar(&softMode, "soft", false, "Admit access-pattern-violating mappings with penalty instead of rejecting them")
	fs.BoolVar(&preloadOutput, "preload-output", false, "Constrain the output-channel axis to a fully resident outer tile")
	fs.BoolVar(&preloadInput, "preload-input", false, "Constrain the input-channel axis to a fully resident outer tile")

	mapWorkloadCmd.MarkFlagRequired("hwb")
	mapWorkloadCmd.MarkFlagRequired("workload")
	mapWorkloadCmd.MarkFlagRequired("mac-budget")
}
