package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yleoer/cdtoc/pkg/report"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [file]...",
	Short: "Print the TOC and lookup links of cue sheets or FLAC files",
	Long: `Decode the table of contents of each file and print it together
with the MusicBrainz and CUETools DB lookup links.

A cue sheet is read with encoding detection and its FILE entries are
resolved next to it. A FLAC file is tried in order: CDTOC tag, embedded
CUESHEET tag, native cuesheet block.

Example:
  cdtoc lookup disc1.cue disc2.cue`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cmd)
		if err != nil {
			return err
		}

		failed := 0
		for i, path := range args {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			disc, err := svc.scanner.Scan(cmd.Context(), path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %s: %v\n", path, err)
				failed++
				continue
			}
			links, err := svc.links.All(disc.TOC)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %s: %v\n", path, err)
				failed++
				continue
			}
			if err := report.Write(cmd.OutOrStdout(), disc, links); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be decoded", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
