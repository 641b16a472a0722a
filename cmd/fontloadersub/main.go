// Command fontloadersub scans subtitle scripts for referenced font
// families, matches them against a font directory, and registers the
// matches with the operating system for the life of the process.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-text/fontprovision/blacklist"
	"github.com/go-text/fontprovision/loader"
	"github.com/go-text/fontprovision/platform"
)

var (
	fontRoot      string
	cachePath     string
	blacklistPath string
	quiet         bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fontloadersub [subtitle paths...]",
		Short: "Load fonts referenced by subtitle scripts for this session",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLoad,
	}
	root.PersistentFlags().StringVar(&fontRoot, "font-root", "", "directory tree to scan for font files (required)")
	root.PersistentFlags().StringVar(&cachePath, "cache", "", "path to a font index cache file to load; the cache is then written to the font root under this file's base name")
	root.PersistentFlags().StringVar(&blacklistPath, "blacklist", "", "path to a blacklist file of suppressed family names")
	root.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-fatal log output")
	root.MarkPersistentFlagRequired("font-root")
	return root
}

func runLoad(cmd *cobra.Command, args []string) error {
	logger := log.New(log.Writer(), "fontloadersub: ", log.LstdFlags)
	if quiet {
		logger.SetOutput(io.Discard)
	}

	bl, err := blacklist.Load(blacklistPath)
	if err != nil {
		return err
	}

	l := loader.New(logger, fontRoot, bl, platform.NewRegistrar())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		l.Cancel()
	}()

	for _, subPath := range args {
		if err := l.AddSubs(subPath); err != nil {
			logger.Printf("add-subs %s: %v", subPath, err)
		}
	}

	if err := l.ScanFonts(fontRoot, cachePath); err != nil {
		return fmt.Errorf("scanning fonts: %w", err)
	}
	if cachePath != "" {
		if err := l.SaveCache(filepath.Base(cachePath)); err != nil {
			logger.Printf("saving cache: %v", err)
		}
	}

	summary := l.LoadFonts()
	fmt.Println(summary.String())
	fmt.Printf("loaded=%d failed=%d unmatched=%d files=%d faces=%d subs=%d\n",
		summary.Loaded, summary.Failed, summary.Unmatched, summary.Files, summary.Faces, summary.Subs)

	warmCtx, cancelWarm := context.WithCancel(context.Background())
	defer cancelWarm()
	go func() {
		<-ctx.Done()
		cancelWarm()
	}()
	go func() {
		if err := l.RunCacheWarmer(warmCtx); err != nil {
			logger.Printf("cache warmer: %v", err)
		}
	}()

	<-ctx.Done()
	l.UnloadFonts()
	return nil
}
