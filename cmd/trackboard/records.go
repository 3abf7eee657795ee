package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/trackboard/trackboard/internal/config"
	"github.com/trackboard/trackboard/internal/timemask"
	"github.com/trackboard/trackboard/internal/trackboard"
	"github.com/trackboard/trackboard/internal/tui"
)

// runForm shows the record form and returns what the user submitted.
func (a *app) runForm(ctx context.Context, tr trackboard.TrackRecords, existing *trackboard.Record) (trackboard.RecordInput, bool, error) {
	countries, err := a.api.Countries(ctx)
	if err != nil {
		return trackboard.RecordInput{}, false, err
	}
	track := trackboard.Track{ID: tr.ID, Name: tr.Name}
	form := tui.NewRecordForm(track, existing, countries)

	p := tea.NewProgram(form, tea.WithContext(ctx), tea.WithInput(a.stdin), tea.WithOutput(a.stdout))
	if _, err := p.Run(); err != nil {
		return trackboard.RecordInput{}, false, fmt.Errorf("running form: %w", err)
	}
	in, ok := form.Result()
	return in, ok, nil
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <track>",
		Short: "Submit a record on a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			if err := a.requireTerminal(); err != nil {
				return err
			}
			tr, err := a.lookupTrack(cmd, args[0])
			if err != nil {
				return err
			}
			in, ok, err := a.runForm(cmd.Context(), tr, nil)
			if err != nil || !ok {
				return err
			}
			rec, err := a.api.CreateRecord(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "added record #%d: %s on %s\n", rec.ID, rec.Record, tr.Name)
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <track> <id>",
		Short: "Edit one of your records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[1])
			}
			if err := a.requireToken(); err != nil {
				return err
			}
			if err := a.requireTerminal(); err != nil {
				return err
			}
			tr, err := a.lookupTrack(cmd, args[0])
			if err != nil {
				return err
			}
			i := slices.IndexFunc(tr.Records, func(r trackboard.Record) bool { return r.ID == id })
			if i < 0 {
				return fmt.Errorf("track %q has no record #%d", tr.Name, id)
			}
			in, ok, err := a.runForm(cmd.Context(), tr, &tr.Records[i])
			if err != nil || !ok {
				return err
			}
			rec, err := a.api.UpdateRecord(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "updated record #%d: %s on %s\n", rec.ID, rec.Record, tr.Name)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			if err := a.requireToken(); err != nil {
				return err
			}
			if err := a.api.DeleteRecord(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted record #%d\n", id)
			return nil
		},
	}
}

func (a *app) prCmd() *cobra.Command {
	var clearPR bool
	cmd := &cobra.Command{
		Use:   "pr <track> [time]",
		Short: "Set or clear your personal record on a track",
		Long: `Set your personal record on a track. The time must be complete,
MM:SS.mmm. Pass --clear, or the placeholder after "--"
(trackboard pr <track> -- --:--.---), to remove it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			switch {
			case clearPR && len(args) == 2:
				return errors.New("pass a time or --clear, not both")
			case len(args) == 2:
				value = strings.TrimSpace(args[1])
				if !timemask.Complete(value) && value != timemask.Placeholder {
					return fmt.Errorf("invalid record value %q (value should follow pattern %s)", value, timemask.Pattern)
				}
			case !clearPR:
				return errors.New("pass a time or --clear")
			}
			if err := a.requireToken(); err != nil {
				return err
			}
			tr, err := a.lookupTrack(cmd, args[0])
			if err != nil {
				return err
			}
			pr, err := a.api.SetPersonalRecord(cmd.Context(), tr.ID, value)
			if err != nil {
				return err
			}
			switch pr.Action {
			case trackboard.PRDelete.String():
				fmt.Fprintf(a.stdout, "cleared personal record on %s\n", tr.Name)
			case trackboard.PRUnchanged.String():
				fmt.Fprintf(a.stdout, "personal record on %s unchanged\n", tr.Name)
			default:
				fmt.Fprintf(a.stdout, "personal record on %s: %s\n", tr.Name, pr.Record)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearPR, "clear", false, "remove the personal record")
	return cmd
}

func (a *app) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Browse tracks interactively and edit personal records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTerminal(); err != nil {
				return err
			}
			tracks, err := a.api.ListTracks(cmd.Context())
			if err != nil {
				return err
			}
			var save tui.SavePersonalRecord
			if a.api.HasToken() {
				save = func(ctx context.Context, trackID int64, value string) (string, error) {
					pr, err := a.api.SetPersonalRecord(ctx, trackID, value)
					return pr.Record, err
				}
			}
			p := tea.NewProgram(tui.NewBoard(tracks, save),
				tea.WithContext(cmd.Context()), tea.WithInput(a.stdin), tea.WithOutput(a.stdout), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an access token for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(token) == "" {
				return errors.New("--token is required")
			}
			path, err := config.SaveToken(token)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "token saved to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "access token issued by the identity provider")
	return cmd
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			me, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s %s", me.ID, me.Email)
			if me.IsCreator {
				fmt.Fprint(a.stdout, " (creator)")
			}
			fmt.Fprintln(a.stdout)
			return nil
		},
	}
}
