package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/yleoer/cdtoc/pkg/config"
	"github.com/yleoer/cdtoc/pkg/converter"
	"github.com/yleoer/cdtoc/pkg/lookup"
	"github.com/yleoer/cdtoc/pkg/parser"
	"github.com/yleoer/cdtoc/pkg/scanner"
)

var rootCmd = &cobra.Command{
	Use:   "cdtoc",
	Short: "Decode CD tables of contents and build disc lookup links",
	Long: `cdtoc reads the table of contents of a CD rip and prints the
identifiers used by MusicBrainz and the CUETools database.

Supported inputs:
  - cue sheets (any common encoding, FILE durations read from the audio)
  - FLAC files with a CDTOC tag, an embedded CUESHEET tag or a cuesheet block

Examples:
  cdtoc lookup "Album.cue"
  cdtoc lookup -v "01 - Track.flac"
  cdtoc watch ./rips`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print progress logs to stderr")
	rootCmd.PersistentFlags().String("env", "", "Load configuration from this env file instead of ./.env")
}

// services 是各子命令共用的依赖
type services struct {
	cfg     *config.Config
	logger  *log.Logger
	scanner *scanner.DiscScanner
	links   *lookup.Builder
}

// newServices 按命令行参数加载配置并组装依赖
func newServices(cmd *cobra.Command) (*services, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("error getting verbose flag: %w", err)
	}
	envFile, err := cmd.Flags().GetString("env")
	if err != nil {
		return nil, fmt.Errorf("error getting env flag: %w", err)
	}

	var logOut io.Writer = io.Discard
	if verbose {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "[cdtoc] ", log.LstdFlags|log.Lshortfile)

	var cfg *config.Config
	if envFile != "" {
		cfg, err = config.LoadConfig(envFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Printf("Configuration loaded: MusicBrainz=%s, CTDB=%s, WatchDir=%s, ScanDelay=%v",
		cfg.MusicBrainzURL, cfg.CTDBURL, cfg.WatchDir, cfg.ScanDelay)

	links, err := lookup.NewBuilder(cfg.MusicBrainzURL, cfg.CTDBURL, cfg.CTDBLookupURL)
	if err != nil {
		return nil, err
	}
	t2s := converter.New(cfg.ConvertT2S, logger)
	cueParser := parser.NewCueParser(t2s, logger)
	return &services{
		cfg:     cfg,
		logger:  logger,
		scanner: scanner.NewDiscScanner(cueParser, nil, cfg.PrefetchWorkers, logger),
		links:   links,
	}, nil
}
