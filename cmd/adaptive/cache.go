package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adaptive/internal/cache"
)

var cacheFormat string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the detection cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show hit/miss counters and store size",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached detection",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheStatsCmd.Flags().StringVar(&cacheFormat, "format", "human", "Output format (json, human)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openConfiguredCache() (*cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.New(dir, env.cfg.CacheTTL(), cache.WithLogger(env.logger))
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, err := openConfiguredCache()
	if err != nil {
		return err
	}
	stats, err := c.Stats()
	if err != nil {
		return err
	}
	out, err := FormatResponse(&CacheStatsCLI{Dir: c.Dir(), Stats: stats}, OutputFormat(cacheFormat))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openConfiguredCache()
	if err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", c.Dir())
	return nil
}

// CacheStatsCLI is the cache stats output.
type CacheStatsCLI struct {
	Dir   string       `json:"dir"`
	Stats *cache.Stats `json:"stats"`
}
