package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"adaptive/internal/analyzer"
	"adaptive/internal/cache"
	"adaptive/internal/paths"
)

// projectArg returns the path argument or the working directory.
func projectArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}

// newContext returns a context cancelled on SIGINT or SIGTERM.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openCache opens the configured cache unless disabled by noCache.
func openCache(noCache bool) (*cache.Cache, error) {
	if noCache {
		return nil, nil
	}
	return analyzer.OpenCache(env.cfg, env.logger)
}

// cacheDir resolves the cache directory even when caching is disabled.
func cacheDir() (string, error) {
	return paths.CacheDir(env.cfg.Cache.Dir)
}
