package main

import (
	"fmt"
	"strconv"

	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
	"github.com/spf13/cobra"
)

func newLeaguesCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "List your leagues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := sess.services.Roster.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
}

func newRosterCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "roster <league>",
		Short: "Show a league roster with slot usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			league, err := sess.services.Roster.GetLeague(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printLeague(cmd.OutOrStdout(), league)
			return nil
		},
	}
}

func newAddCmd(sess *session) *cobra.Command {
	var (
		isDefense       bool
		swapWith        string
		swapWithDefense bool
	)
	cmd := &cobra.Command{
		Use:   "add <league> <member> [position]",
		Short: "Add a player or defense to a roster",
		Long:  "Add a player or defense. Position is required for players. When the roster is full, --swap-with names the member to drop.",
		Args: func(cmd *cobra.Command, args []string) error {
			if isDefense {
				return cobra.RangeArgs(2, 3)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			input := usecase.AddMemberInput{LeagueID: args[0], MemberID: args[1], IsDefense: isDefense}
			if len(args) == 3 {
				input.Position = args[2]
			}

			result, err := sess.services.Roster.AddMember(ctx, input)
			if err != nil {
				return err
			}
			if result.Outcome == usecase.AddOutcomeAdded {
				fmt.Fprintf(out, "added %s to %s\n", input.MemberID, slotLabel(result.Slot))
				return nil
			}

			if swapWith == "" {
				fmt.Fprintf(out, "no room for %s; rerun with --swap-with <id> using one of:\n", input.MemberID)
				printEntries(out, result.Candidates)
				return nil
			}
			league, err := sess.services.Roster.SwapMember(ctx, usecase.SwapMemberInput{
				LeagueID: input.LeagueID,
				Outgoing: roster.Ref{ID: swapWith, IsDefense: swapWithDefense},
				Incoming: roster.Ref{ID: input.MemberID, IsDefense: isDefense},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "swapped %s in for %s\n", input.MemberID, swapWith)
			printLeague(out, league)
			return nil
		},
	}
	cmd.Flags().BoolVar(&isDefense, "defense", false, "member is a team defense")
	cmd.Flags().StringVar(&swapWith, "swap-with", "", "rostered member to drop when the roster is full")
	cmd.Flags().BoolVar(&swapWithDefense, "swap-with-defense", false, "the --swap-with member is a team defense")
	return cmd
}

func newRemoveCmd(sess *session) *cobra.Command {
	var isDefense bool
	cmd := &cobra.Command{
		Use:   "remove <league> <member>",
		Short: "Drop a player or defense from a roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			league, err := sess.services.Roster.RemoveMember(cmd.Context(), args[0], roster.Ref{ID: args[1], IsDefense: isDefense})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[1])
			printLeague(cmd.OutOrStdout(), league)
			return nil
		},
	}
	cmd.Flags().BoolVar(&isDefense, "defense", false, "member is a team defense")
	return cmd
}

func newToggleCmd(sess *session) *cobra.Command {
	var (
		isDefense       bool
		swapWith        string
		swapWithDefense bool
	)
	cmd := &cobra.Command{
		Use:   "toggle <league> <member>",
		Short: "Move a member between the starting lineup and the bench",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			member := roster.Ref{ID: args[1], IsDefense: isDefense}

			interaction := sess.services.StartSit.NewSession(args[0])
			result, err := interaction.Toggle(ctx, member)
			if err != nil {
				return err
			}
			if interaction.State() != usecase.StateAwaitingSwapChoice {
				fmt.Fprintf(out, "%s %s\n", member.ID, result.Outcome)
				return nil
			}

			if swapWith == "" {
				interaction.Cancel()
				fmt.Fprintf(out, "no open starting slot for %s; rerun with --swap-with <id> using one of:\n", member.ID)
				printEntries(out, result.Candidates)
				return nil
			}

			league, err := interaction.Choose(ctx, roster.Ref{ID: swapWith, IsDefense: swapWithDefense})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "started %s, benched %s\n", member.ID, swapWith)
			printLeague(out, league)
			return nil
		},
	}
	cmd.Flags().BoolVar(&isDefense, "defense", false, "member is a team defense")
	cmd.Flags().StringVar(&swapWith, "swap-with", "", "starter to bench when no slot is free")
	cmd.Flags().BoolVar(&swapWithDefense, "swap-with-defense", false, "the --swap-with member is a team defense")
	return cmd
}

func newAdviceCmd(sess *session) *cobra.Command {
	var regenerate, apply bool
	cmd := &cobra.Command{
		Use:   "advice <league>",
		Short: "Show start/sit advice, optionally applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := sess.user(ctx)
			if err != nil {
				return err
			}
			input := usecase.GetAdviceInput{UserID: userID, LeagueID: args[0], Regenerate: regenerate}
			out := cmd.OutOrStdout()

			if apply {
				result, err := sess.services.Advice.Apply(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "applied %d change(s), %d failed\n", result.Applied, result.Failed)
				printLeague(out, result.League)
				return nil
			}

			result, err := sess.services.Advice.Get(ctx, input)
			if err != nil {
				return err
			}
			printAdvice(out, result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "ignore cached advice and ask again")
	cmd.Flags().BoolVar(&apply, "apply", false, "start and bench members as advised")
	return cmd
}

func newCatalogCmd(sess *session) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "catalog <position>",
		Short: "List selectable players or defenses for a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := sess.services.Catalog.ListByPosition(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), listing)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name filter")
	return cmd
}

func newWeeksCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks <league> [week]",
		Short: "List scored weeks, or show one week's player points",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				weeks, err := sess.services.Performance.AvailableWeeks(ctx, args[0])
				if err != nil {
					return err
				}
				printWeeks(cmd.OutOrStdout(), weeks)
				return nil
			}
			week, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: week must be a number", usecase.ErrInvalidInput)
			}
			report, err := sess.services.Performance.Week(ctx, args[0], week)
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), report)
			return nil
		},
	}
}
