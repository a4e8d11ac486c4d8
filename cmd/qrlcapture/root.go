package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "qrlcapture",
	Short:   "Compile useInlineTask capture call sites",
	Long:    `qrlcapture rewrites useInlineTask(() => {...}) call sites to capture their free outer-scope variables, for use outside of a live bundler process.`,
	Version: version,
}

func init() {
	rootCmd.SetVersionTemplate("qrlcapture version {{.Version}}\n")
}
