package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"beatfetch/internal"
)

var (
	jsonOutput bool
	pageIndex  int
)

var mapCmd = &cobra.Command{
	Use:   "map <KEY>",
	Short: "Show a beatmap by key",
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
		return printBeatmap(cmd.OutOrStdout(), beatmap)
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <HASH>",
	Short: "Show a beatmap by content hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		beatmap, found := client.GetBeatmapByHash(ctx, strings.ToLower(args[0]))
		if !found {
			return fmt.Errorf("no beatmap found for hash %q", args[0])
		}
		return printBeatmap(cmd.OutOrStdout(), beatmap)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <QUERY>",
	Short: "Search beatmaps by text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pageIndex < 0 {
			err := internal.NewValidationErrorWithValue("page", "page index cannot be negative", pageIndex)
			internal.LogValidationError(err)
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		query := strings.Join(args, " ")
		page, found := client.SearchPaged(ctx, query, pageIndex)
		if !found {
			return fmt.Errorf("search for %q failed", query)
		}
		return printPage(cmd.OutOrStdout(), page)
	},
}

func printBeatmap(w io.Writer, b *internal.Beatmap) error {
	if jsonOutput {
		return writeJSON(w, b)
	}

	fmt.Fprintf(w, "Key:        %s\n", b.Key)
	fmt.Fprintf(w, "Name:       %s\n", b.Name)
	fmt.Fprintf(w, "Song:       %s\n", songTitle(b))
	fmt.Fprintf(w, "Mapper:     %s\n", b.Metadata.LevelAuthorName)
	fmt.Fprintf(w, "Hash:       %s\n", b.Hash)
	if b.Metadata.BPM > 0 {
		fmt.Fprintf(w, "BPM:        %g\n", b.Metadata.BPM)
	}
	if diffs := difficulties(b); diffs != "" {
		fmt.Fprintf(w, "Difficulty: %s\n", diffs)
	}
	fmt.Fprintf(w, "Votes:      +%d / -%d (%d downloads)\n", b.Stats.UpVotes, b.Stats.DownVotes, b.Stats.Downloads)
	return nil
}

func printPage(w io.Writer, p *internal.Page) error {
	if jsonOutput {
		return writeJSON(w, p)
	}

	if len(p.Docs) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}
	for _, b := range p.Docs {
		fmt.Fprintf(w, "%-8s %s [%s]\n", b.Key, songTitle(&b), b.Metadata.LevelAuthorName)
	}
	fmt.Fprintf(w, "\n%d results, page %d of %d\n", p.TotalDocs, currentPage(p)+1, p.LastPage+1)
	if p.HasNext() {
		fmt.Fprintf(w, "Use -p %d for the next page\n", *p.NextPage)
	}
	return nil
}

func currentPage(p *internal.Page) int {
	switch {
	case p.NextPage != nil:
		return *p.NextPage - 1
	case p.PrevPage != nil:
		return *p.PrevPage + 1
	default:
		return 0
	}
}

func songTitle(b *internal.Beatmap) string {
	title := b.Metadata.SongName
	if b.Metadata.SongSubName != "" {
		title += " " + b.Metadata.SongSubName
	}
	if b.Metadata.SongAuthorName != "" {
		title = b.Metadata.SongAuthorName + " - " + title
	}
	return title
}

func difficulties(b *internal.Beatmap) string {
	var names []string
	for name, present := range b.Metadata.Difficulties {
		if present {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{mapCmd, hashCmd, searchCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw document as JSON")
	}
	searchCmd.Flags().IntVarP(&pageIndex, "page", "p", 0, "Result page, starting at 0")
}
