package main

import (
	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "quantities",
		Short: "List the quantity names a definition accepts",
		Args:  cobra.NoArgs,
		Run:   listQuantities}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "validate definition",
		Short: "Check a join definition and print its shape",
		Args:  cobra.ExactArgs(1),
		Run:   validateDefinition}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "run definition query",
		Short: "Run a query and print the reconstructed result as JSON",
		Args:  cobra.ExactArgs(2),
		Run:   runQuery}
	cmd.Flags().String("driver", "", "database driver, 'pgx' or 'postgres'")
	cmd.Flags().String("dsn", "", "database connection string")
	cmd.Flags().StringArray("arg", nil, "query argument, repeatable")
	root.AddCommand(cmd)
}

func main() {
	var root = &cobra.Command{Use: "joinery", Short: "Reconstruct nested values from SQL join rows"}
	root.PersistentFlags().String("config", "", "config file or directory holding joinery.yaml")
	addCommands(root)
	root.Execute()
}
