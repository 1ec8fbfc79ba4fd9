package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func slotLabel(slot roster.Slot) string {
	switch slot {
	case roster.SlotFlex:
		return "FLEX"
	case roster.SlotBench:
		return "the bench"
	default:
		return "the starting lineup"
	}
}

func printProfile(w io.Writer, profile account.Profile) {
	fmt.Fprintf(w, "%s (%d advice tokens left)\n", profile.UserID, profile.TokensLeft)
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPLAYERS\tDEFENSES")
	for _, league := range profile.Leagues {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", league.ID, league.Name, len(league.Players), len(league.Defenses))
	}
	_ = tw.Flush()
}

func printLeague(w io.Writer, league roster.League) {
	fmt.Fprintf(w, "%s (%s)\n", league.Name, league.ID)

	var usage []string
	for _, u := range roster.Occupancy(league) {
		usage = append(usage, fmt.Sprintf("%s %d/%d", u.Category, u.Used, u.Capacity))
	}
	fmt.Fprintln(w, strings.Join(usage, "  "))
	fmt.Fprintf(w, "flex open: %d  bench open: %d\n", roster.FlexRemaining(league), roster.RemainingBench(league))

	printEntries(w, league.Entries())
}

func printEntries(w io.Writer, entries []roster.Entry) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPOS\tTEAM\tSTATUS\tPTS")
	for _, e := range entries {
		status := "bench"
		if e.Picked {
			status = "start"
		}
		pos := e.Position.String()
		if e.IsDefense {
			pos = "DEF"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n", e.ID, e.Name, pos, e.Team, status, e.SeasonPoints)
	}
	_ = tw.Flush()
}

func printAdvice(w io.Writer, result usecase.AdviceResult) {
	source := "fresh"
	if result.Cached {
		source = "cached"
	}
	fmt.Fprintf(w, "advice for %s (%s)\n", result.League.Name, source)

	tw := newTable(w)
	fmt.Fprintln(tw, "PLAYER\tPOS\tCALL\tREASON")
	for _, rec := range result.Recommendations {
		call := "sit"
		if rec.Picked {
			call = "start"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.PlayerID, rec.Position, call, rec.Reasoning)
	}
	_ = tw.Flush()
}

func printListing(w io.Writer, listing catalog.Listing) {
	tw := newTable(w)
	if listing.Kind == catalog.KindDefenses {
		fmt.Fprintln(tw, "ID\tNAME")
		for _, d := range listing.Defenses {
			fmt.Fprintf(tw, "%s\t%s\n", d.ID, d.Name)
		}
		_ = tw.Flush()
		return
	}
	fmt.Fprintln(tw, "ID\tNAME\tTEAM\tPTS")
	for _, p := range listing.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", p.ID, p.Name, p.Team, p.SeasonPoints)
	}
	_ = tw.Flush()
}

func printWeeks(w io.Writer, weeks []int) {
	if len(weeks) == 0 {
		fmt.Fprintln(w, "no scored weeks yet")
		return
	}
	labels := make([]string, len(weeks))
	for i, week := range weeks {
		labels[i] = strconv.Itoa(week)
	}
	fmt.Fprintf(w, "weeks: %s\n", strings.Join(labels, ", "))
}

func printWeek(w io.Writer, report usecase.WeeklyPerformance) {
	fmt.Fprintf(w, "week %d\n", report.Week)
	tw := newTable(w)
	fmt.Fprintln(tw, "PLAYER\tPOS\tPTS\tSTARTED\tPOS RANK")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%t\t%d\n", row.Name, row.Position, row.ActualPoints, row.Picked, row.PositionRank)
	}
	_ = tw.Flush()
	for _, h := range report.History {
		if h.Week == report.Week {
			fmt.Fprintf(w, "lineup accuracy: %.0f%% (%.1f of %.1f)\n", h.Accuracy, h.ActualPoints, h.MaxPoints)
		}
	}
}
