package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/database"
)

const (
	numMembers = 24
	numMatches = 500
	dateLayout = "2006-01-02"
)

var classes = []string{"A", "B", "C", "D"}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func main() {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	db, teardown, err := database.InitDB(getEnv("DB_NAME", "clubdesk.db"), os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := club.New(db)

	members := make([]string, 0, numMembers)
	for i := range numMembers {
		m, err := store.AddMember(ctx, club.Member{
			Name:        fmt.Sprintf("Seeder Member %02d", i+1),
			Email:       fmt.Sprintf("seeder%02d@clubdesk.test", i+1),
			Phone:       fmt.Sprintf("+45 2000 %04d", i+1),
			NTRP:        fmt.Sprintf("%.1f", 2.5+float64(rand.Intn(6))*0.5),
			Status:      club.StatusActive,
			Role:        club.RoleMember,
			SingleClass: classes[rand.Intn(len(classes))],
			DoubleClass: classes[rand.Intn(len(classes))],
		})
		if err != nil {
			log.Fatalf("Failed to insert seeder member: %s", err)
		}
		members = append(members, m.ID)
	}
	log.Info("Inserted seeder members", "count", len(members))

	now := time.Now()
	start := now.AddDate(0, -3, 0)
	season, err := store.AddSeason(ctx, club.Season{
		Name:      fmt.Sprintf("Seeded season %s", now.Format("2006-01")),
		StartDate: start.Format(dateLayout),
		EndDate:   now.AddDate(0, 3, 0).Format(dateLayout),
	})
	if err != nil {
		log.Fatalf("Failed to insert seeder season: %s", err)
	}

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "season", season.ID)
	startTime := time.Now()
	for i := range numMatches {
		in := randomMatch(season.ID, members, start, now)
		if _, err := store.RecordMatch(ctx, in); err != nil {
			log.Fatalf("Failed to record match %d: %s", i, err)
		}
		if (i+1)%100 == 0 {
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	log.Info("Successfully inserted all dummy matches.", "duration", time.Since(startTime))
}

// randomMatch draws distinct players for both teams and a score without ties.
func randomMatch(seasonID int64, members []string, from, to time.Time) club.MatchInput {
	matchType := club.MatchSingle
	if rand.Intn(2) == 0 {
		matchType = club.MatchDoubles
	}
	size := matchType.TeamSize()
	picked := rand.Perm(len(members))[:2*size]
	team1 := make([]string, 0, size)
	team2 := make([]string, 0, size)
	for i, idx := range picked {
		if i < size {
			team1 = append(team1, members[idx])
		} else {
			team2 = append(team2, members[idx])
		}
	}

	winnerScore := 6
	loserScore := rand.Intn(5)
	in := club.MatchInput{
		SeasonID:  seasonID,
		MatchDate: from.Add(time.Duration(rand.Int63n(int64(to.Sub(from))))).Format(dateLayout),
		MatchType: matchType,
		Team1:     team1,
		Team2:     team2,
	}
	if rand.Intn(2) == 0 {
		in.Team1Score, in.Team2Score, in.WinnerTeam = winnerScore, loserScore, 1
	} else {
		in.Team1Score, in.Team2Score, in.WinnerTeam = loserScore, winnerScore, 2
	}
	return in
}
