package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "e2etool",
	Short: "AUTOSAR E2E frame protection CLI",
	Long:  `A command line interface for computing AUTOSAR CRCs and protecting or checking E2E frames.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
