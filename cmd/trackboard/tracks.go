package main

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trackboard/trackboard/internal/client"
	"github.com/trackboard/trackboard/internal/trackboard"
)

// parseSort reads --sort and --desc against the sortable columns.
func parseSort(column string, desc bool, columns []string) (trackboard.Sort, error) {
	if column == "" {
		if desc {
			return trackboard.Sort{}, errors.New("--desc needs --sort")
		}
		return trackboard.Sort{}, nil
	}
	if !slices.Contains(columns, column) {
		return trackboard.Sort{}, fmt.Errorf("cannot sort by %q, choose one of %s", column, strings.Join(columns, ", "))
	}
	s := trackboard.Sort{Column: column, Order: trackboard.SortAsc}
	if desc {
		s.Order = trackboard.SortDesc
	}
	return s, nil
}

func (a *app) tracksCmd() *cobra.Command {
	var (
		filter      trackboard.Filter
		sortBy      string
		desc        bool
		recordsView bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List tracks with their fastest record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			columns := trackboard.TrackColumns
			if recordsView {
				columns = trackboard.RecordsViewColumns
			}
			s, err := parseSort(sortBy, desc, columns)
			if err != nil {
				return err
			}

			tracks, err := a.api.ListTracks(cmd.Context())
			if err != nil {
				return err
			}
			tracks = trackboard.FilterTracks(tracks, filter)
			trackboard.SortTracks(tracks, s)
			a.logger.Debug("listing tracks", "count", len(tracks), "sort", s.Column, "order", s.Order)

			if asJSON {
				return printJSON(a.stdout, tracks)
			}
			if recordsView {
				printRecordsView(a, tracks)
			} else {
				printTracks(a, tracks)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "filter by name or theme")
	cmd.Flags().BoolVar(&filter.SpeedGrandPrix, "speed-gp", false, "only tracks raced in the speed grand prix")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&recordsView, "records-view", false, "show top records instead of track details")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printTracks(a *app, tracks []trackboard.TrackOverview) {
	headers := []string{"Name", "Theme", "License", "Difficulty", "Laps", "Item mode", "Released", "Record", "Records"}
	if a.api.HasToken() {
		headers = append(headers, "PB")
	}
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		row := []string{
			t.Name, t.Theme, t.License, strconv.Itoa(t.Difficulty), strconv.Itoa(t.Laps),
			strconv.FormatBool(t.ItemMode), t.ReleaseDate, orDash(t.Record), strconv.Itoa(t.NumberOfRecords),
		}
		if a.api.HasToken() {
			row = append(row, orDash(t.PersonalRecord))
		}
		rows = append(rows, row)
	}
	printTable(a.stdout, headers, rows)
}

func printRecordsView(a *app, tracks []trackboard.TrackOverview) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			t.Name, t.Theme, orDash(t.Record), orDash(t.Player), orDash(t.TopRecordDate), orDash(trackboard.VideoHost(t.Video)),
		})
	}
	printTable(a.stdout, []string{"Name", "Theme", "Record", "Player", "Date", "Video"}, rows)
}

// lookupTrack fetches a track and its records by name.
func (a *app) lookupTrack(cmd *cobra.Command, name string) (trackboard.TrackRecords, error) {
	tr, err := a.api.TrackRecords(cmd.Context(), name)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return tr, fmt.Errorf("unknown track %q", name)
	}
	return tr, err
}

func (a *app) recordsCmd() *cobra.Command {
	var (
		sortBy string
		desc   bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "records <track>",
		Short: "List the records of a track, fastest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseSort(sortBy, desc, []string{trackboard.ColRecord, trackboard.ColPlayer, trackboard.ColDate})
			if err != nil {
				return err
			}
			tr, err := a.lookupTrack(cmd, args[0])
			if err != nil {
				return err
			}
			trackboard.SortRecords(tr.Records, s)
			if asJSON {
				return printJSON(a.stdout, tr)
			}

			seasons, err := a.api.Seasons(cmd.Context())
			if err != nil {
				a.logger.Warn("loading seasons", "error", err)
			}
			rows := make([][]string, 0, len(tr.Records))
			for _, r := range tr.Records {
				season := "-"
				if i := trackboard.SeasonFor(seasons, r.Date); i >= 0 {
					season = seasons[i].Description
				}
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10), r.Record, r.Player, r.Date, season,
					orDash(r.Region), orDash(r.ControlType), orDash(trackboard.VideoHost(r.Video)),
				})
			}
			fmt.Fprintln(a.stdout, tr.Name)
			printTable(a.stdout, []string{"ID", "Record", "Player", "Date", "Season", "Region", "Control", "Video"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column: record, player or date")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) resourcesCmd() *cobra.Command {
	var (
		sortBy string
		desc   bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List community guides and tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := parseSort(sortBy, desc, trackboard.ResourceColumns)
			if err != nil {
				return err
			}
			res, err := a.api.Resources(cmd.Context())
			if err != nil {
				return err
			}
			trackboard.SortResources(res, s)
			if asJSON {
				return printJSON(a.stdout, res)
			}
			rows := make([][]string, 0, len(res))
			for _, r := range res {
				rows = append(rows, []string{r.Name, orDash(r.Creator), r.Language, r.Category, r.Type, r.URL})
			}
			printTable(a.stdout, []string{"Name", "Creator", "Language", "Category", "Type", "Link"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
