package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"beatfetch/internal"
	"beatfetch/utils"
)

var (
	syncDownload bool
	coverOutput  string
)

var downloadCmd = &cobra.Command{
	Use:   "download <KEY>",
	Short: "Download a beatmap and extract it into the custom levels folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		beatmap, found := client.GetBeatmapByKey(ctx, args[0])
		if !found {
			return fmt.Errorf("no beatmap found for key %q", args[0])
		}

		dest := client.Destination(beatmap)
		if utils.NewFileOperations().FileExists(dest) {
			internal.LogInfo("Replacing existing folder %s", dest)
		}
		internal.LogInfo("Downloading %s into %s", beatmap.Key, dest)

		if syncDownload {
			result := client.DownloadBeatmapResult(ctx, beatmap)
			if !result.OK() {
				internal.LogClientError(internal.GetLogger(), result.Err)
				return fmt.Errorf("download of %s failed: %v", beatmap.Key, result.Err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d files to %s\n", result.Entries, result.Destination)
			}
			return nil
		}

		tracker := utils.NewProgressTracker("Downloading "+beatmap.Key, quiet)
		task := client.DownloadBeatmapAsync(ctx, beatmap, nil, tracker.Callback())

		result, _, err := task.WaitContext(ctx)
		if err != nil {
			internal.LogWarn("Download of %s interrupted at %.0f%%: %v", beatmap.Key, tracker.Percentage(), err)
			return fmt.Errorf("download of %s interrupted: %w", beatmap.Key, err)
		}
		tracker.Finish(result.Destination)

		if !result.OK() {
			internal.LogClientError(internal.GetLogger(), result.Err)
			return fmt.Errorf("download of %s failed: %v", beatmap.Key, result.Err)
		}
		return nil
	},
}

var coverCmd = &cobra.Command{
	Use:   "cover <KEY>",
	Short: "Save the cover image of a beatmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		beatmap, found := client.GetBeatmapByKey(ctx, args[0])
		if !found {
			return fmt.Errorf("no beatmap found for key %q", args[0])
		}

		output := coverOutput
		if output == "" {
			output = beatmap.Key + filepath.Ext(beatmap.CoverURL)
		}

		tracker := utils.NewProgressTracker("Cover "+beatmap.Key, quiet)
		task := client.GetCoverImageAsync(ctx, beatmap, nil, tracker.Callback())

		data, _, err := task.WaitContext(ctx)
		if err != nil {
			return fmt.Errorf("cover download of %s interrupted: %w", beatmap.Key, err)
		}
		if len(data) == 0 {
			tracker.Finish("")
			return fmt.Errorf("no cover image available for %s", beatmap.Key)
		}

		if dir := filepath.Dir(output); dir != "." {
			if err := utils.NewFileOperations().EnsureDir(dir); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			internal.LogError("Failed to write cover of %s to %s: %v", beatmap.Key, output, err)
			return fmt.Errorf("failed to write cover: %w", err)
		}
		tracker.Finish(output)
		return nil
	},
}

func init() {
	downloadCmd.Flags().BoolVar(&syncDownload, "sync", false, "Use the blocking download path without a progress bar")
	coverCmd.Flags().StringVarP(&coverOutput, "output", "o", "", "Output file (default {key} plus the cover extension)")
}
