package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	log "k8s.io/klog"
)

var rootCmd = &cobra.Command{
	Use:   "yangdata",
	Short: "yangdata parses and emits YANG-modeled instance data",
}

func init() {
	cfgFile := rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().StringSlice("yang-path", []string{"."}, "directories to search for YANG modules")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupKlog()
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		viper.AutomaticEnv()
		return nil
	}
}

func setupKlog() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	log.InitFlags(klogFlags)
	_ = klogFlags.Set("logtostderr", "true")
}

// Execute runs the yangdata command line, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
