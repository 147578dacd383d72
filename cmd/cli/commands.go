package main

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/listing"
	"github.com/mauv0809/clubdesk/internal/recording"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recordCmd)

	membersCmd.Flags().String("status", "", "Only members with this status (active, inactive)")
	membersCmd.Flags().String("email", "", "Search by email")
	membersCmd.Flags().String("phone", "", "Search by phone")
	membersCmd.Flags().String("role", "", "Search by role")
	membersCmd.Flags().String("name", "", "Search by name")
	addListFlags(membersCmd)

	matchesCmd.Flags().String("member-name", "", "Only matches of members whose name contains this")
	matchesCmd.Flags().String("season", "", "Only matches of this season id")
	matchesCmd.Flags().String("type", "", "Only matches of this type (single, doubles)")
	matchesCmd.Flags().String("team", "", "Only records of this team number (1, 2)")
	matchesCmd.Flags().String("status", "", "Only won or lost records (win, lose)")
	addListFlags(matchesCmd)

	rankingCmd.Flags().String("type", string(club.PointsTotal), "Points to rank by (total, single, doubles)")

	recordCmd.Flags().Int64("season", 0, "Season id")
	recordCmd.Flags().String("type", string(club.MatchSingle), "Match type (single, doubles)")
	recordCmd.Flags().StringSlice("ours", nil, "Member ids of our team")
	recordCmd.Flags().StringSlice("theirs", nil, "Member ids of the opponent team")
	recordCmd.Flags().String("score", "", "Score as ours-theirs, e.g. 6-4")
	recordCmd.Flags().String("date", "", "Match date (YYYY-MM-DD), defaults to today")
	recordCmd.Flags().Int("game", 1, "Game number")
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("sort", string(listing.SortDesc), "Sort direction (asc, desc)")
	cmd.Flags().Int("page", 0, "Page to show, starting at 0")
	cmd.Flags().Int("page-size", listing.DefaultPageSize, "Rows per page (5, 10, 25)")
	cmd.Flags().Bool("tabs", false, "Also print the tab counts")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get the Prometheus metrics from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List club members",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		schema := listing.MembersSchema
		return runList(cmd, listing.Config[club.Member, string]{
			Schema: schema,
			Fetch:  remoteFetcher[club.Member](c, "/api/members", schema),
			Count:  remoteCounter(c, "/api/members", schema),
			Key:    func(m club.Member) string { return m.ID },
		}, map[string]string{
			"status": "status", "email": "email", "phone": "phone", "role": "role", "name": "name",
		}, []string{"ID", "Name", "Email", "Phone", "Status", "Role", "Single", "Doubles"},
			func(m club.Member) []string {
				return []string{m.ID, m.Name, m.Email, m.Phone, string(m.Status), string(m.Role),
					analytics.Display(m.SingleClass), analytics.Display(m.DoubleClass)}
			})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List match records",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		schema := listing.MatchesSchema
		return runList(cmd, listing.Config[club.MatchRecord, club.RecordKey]{
			Schema: schema,
			Fetch:  remoteFetcher[club.MatchRecord](c, "/api/matches", schema),
			Count:  remoteCounter(c, "/api/matches", schema),
			Key:    club.MatchRecord.Key,
		}, map[string]string{
			"member-name": "memberName", "season": "seasonId", "type": "matchType", "team": "teamNo", "status": "status",
		}, []string{"Match", "Date", "Type", "Member", "Team", "Score", "Result"},
			func(r club.MatchRecord) []string {
				result := "Lose"
				if r.Won() {
					result = "Win"
				}
				return []string{strconv.FormatInt(r.MatchID, 10), r.MatchDate, string(r.MatchType), r.MemberName,
					strconv.Itoa(r.TeamNo), fmt.Sprintf("%d-%d", r.Team1Score, r.Team2Score), result}
			})
	},
}

// runList opens a view with the filters given on the command line, loads one
// page and prints it as a table followed by the shareable query string.
func runList[R any, K comparable](cmd *cobra.Command, cfg listing.Config[R, K], filters map[string]string, headers []string, row func(R) []string) error {
	state := listing.NewState()
	for flag, key := range filters {
		v, _ := cmd.Flags().GetString(flag)
		state = state.With(key, v)
	}
	sort, _ := cmd.Flags().GetString("sort")
	state = state.WithSort(listing.SortDir(sort))
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")
	withTabs, _ := cmd.Flags().GetBool("tabs")

	cfg.Initial = state
	cfg.Page = page
	cfg.PageSize = size
	view := listing.NewView(cfg)
	if err := view.Refresh(cmd.Context()); err != nil {
		return err
	}

	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for _, r := range view.Rows() {
		t.Row(row(r)...)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, t.String())
	fmt.Fprintf(out, "Page %d, %d of %d rows\n", view.Page(), len(view.Rows()), view.Total())
	if qs := view.QueryString(); qs != "" {
		fmt.Fprintf(out, "Query: ?%s\n", qs)
	}
	if withTabs {
		for _, tab := range view.Tabs(cmd.Context()) {
			fmt.Fprintf(out, "%s: %d\n", tab.Label, tab.Count)
		}
	}
	return nil
}

var rankingCmd = &cobra.Command{
	Use:   "ranking <seasonID>",
	Short: "Show the leaderboard of a season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pointsType, _ := cmd.Flags().GetString("type")
		var entries []analytics.RankEntry
		path := fmt.Sprintf("/api/seasons/%s/ranking?type=%s", args[0], pointsType)
		if err := newClient().do(cmd.Context(), http.MethodGet, path, nil, &entries); err != nil {
			return err
		}
		t := table.New().Border(lipgloss.NormalBorder()).Headers("Rank", "Name", "Score", "Wins", "Played")
		for _, e := range entries {
			t.Row(strconv.Itoa(e.Rank), e.Name, strconv.Itoa(e.Score), strconv.Itoa(e.Wins), strconv.Itoa(e.Played))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics <memberID>",
	Short: "Show the win rates and class history of a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var s analytics.MemberSummary
		if err := newClient().do(cmd.Context(), http.MethodGet, "/api/members/"+args[0]+"/analytics", nil, &s); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (single %s, doubles %s)\n", s.Name, s.SingleClass, s.DoubleClass)
		t := table.New().Border(lipgloss.NormalBorder()).Headers("", "Played", "Won", "Win rate")
		for _, line := range []struct {
			label string
			tally analytics.Tally
		}{
			{"Singles", s.WinRates.Singles},
			{"Doubles", s.WinRates.Doubles},
			{"Overall", s.WinRates.Overall},
		} {
			t.Row(line.label, strconv.Itoa(line.tally.Total), strconv.Itoa(line.tally.Wins), analytics.FormatPercent(line.tally.WinRate))
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the club activity counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var counts map[string]int
		if err := newClient().do(cmd.Context(), http.MethodGet, "/api/stats", nil, &counts); err != nil {
			return err
		}
		t := table.New().Border(lipgloss.NormalBorder()).Headers("Counter", "Value")
		for _, name := range slices.Sorted(maps.Keys(counts)) {
			t.Row(name, strconv.Itoa(counts[name]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a played match",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		matchType, _ := flags.GetString("type")
		ours, _ := flags.GetStringSlice("ours")
		theirs, _ := flags.GetStringSlice("theirs")
		score, _ := flags.GetString("score")
		date, _ := flags.GetString("date")

		form := recording.NewForm(time.Now())
		form.SetMatchType(club.MatchType(matchType))
		form.SetOurTeam(ours)
		form.SetOpponentTeam(theirs)
		form.SeasonID, _ = flags.GetInt64("season")
		form.GameNumber, _ = flags.GetInt("game")
		if date != "" {
			form.MatchDate = date
		}
		if _, err := fmt.Sscanf(score, "%d-%d", &form.OurScore, &form.OpponentScore); err != nil {
			return fmt.Errorf("score must look like 6-4: %w", err)
		}
		if err := recording.Validate(form); err != nil {
			return err
		}

		var match club.Match
		if err := newClient().do(cmd.Context(), http.MethodPost, "/api/matches", form, &match); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded match %d on %s\n", match.ID, match.MatchDate)
		return nil
	},
}

func performGetRequest(path string) error {
	resp, err := http.Get(host + path)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))
	return nil
}
