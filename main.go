package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "windloft",
	Short: "Parametric wind turbine and wind farm mesh generator",
	Long: `windloft builds watertight surface meshes for wind turbines and whole
wind farms from declarative Lisp scripts: lofted blades, hubs, towers,
rotor and farm assemblies, plus a body-fitted fluid-domain grid over the
farm perimeter.`,
	Version: "1.0.0",
}

var generateOpts GenerateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Evaluate a farm script and write STL files",
	Long: `Evaluate a farm-definition script and write one STL file per part of
the assembled farm. With --domain, the fluid-domain grid over the farm
perimeter is written as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return NewApp().Generate(generateOpts)
	},
}

var (
	bladeOut      string
	bladeDiameter float64
)

var bladeCmd = &cobra.Command{
	Use:   "blade",
	Short: "Write a single reference blade STL",
	RunE: func(cmd *cobra.Command, args []string) error {
		return NewApp().GenerateBlade(bladeOut, bladeDiameter)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateOpts.ScriptPath, "script", "", "farm script to evaluate")
	generateCmd.Flags().StringVar(&generateOpts.OutDir, "out", "out", "output directory for STL files")
	generateCmd.Flags().BoolVar(&generateOpts.Domain, "domain", false, "also write the fluid-domain grid surface")
	generateCmd.Flags().IntVar(&generateOpts.Layers, "layers", 0, "vertical layers for the domain grid (0 = flat)")
	_ = generateCmd.MarkFlagRequired("script")

	bladeCmd.Flags().StringVar(&bladeOut, "out", "blade.stl", "output STL file")
	bladeCmd.Flags().Float64Var(&bladeDiameter, "diameter", 126, "rotor diameter the blade is lofted for")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(bladeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
