// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached search results",
	Long: `Clear removes every cached result set. Other data sharing the cache
database is left alone. The next search for any location queries the
sources fresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine(engineConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := eng.ClearCache(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
