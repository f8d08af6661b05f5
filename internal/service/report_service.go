package service

import (
	"bytes"
	"context"
	"course_seeder/internal/model"
	"course_seeder/internal/util"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ScoreSummary struct {
	Users        int `json:"users"`
	MinPoints    int `json:"minPoints"`
	MaxPoints    int `json:"maxPoints"`
	SumPoints    int `json:"sumPoints"`
	ZeroScorings int `json:"zeroScorings"`
}

// RunReport summarises one seeding run.
type RunReport struct {
	RunID       string             `json:"runId"`
	Driver      string             `json:"driver"`
	RandomSeed  int64              `json:"randomSeed"`
	StartedAt   time.Time          `json:"startedAt"`
	FinishedAt  time.Time          `json:"finishedAt"`
	Elapsed     string             `json:"elapsed"`
	Counts      map[string]int64   `json:"counts"`
	Scores      ScoreSummary       `json:"scores"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

func NewRunReport(driver string, seed int64, startedAt time.Time) *RunReport {
	return &RunReport{
		RunID:      uuid.New().String(),
		Driver:     driver,
		RandomSeed: seed,
		StartedAt:  startedAt,
		Counts:     map[string]int64{},
	}
}

// Finish stamps the end of the run.
func (r *RunReport) Finish(now time.Time) {
	r.FinishedAt = now
	r.Elapsed = now.Sub(r.StartedAt).String()
}

func SummarizeScores(standings []model.Standing) ScoreSummary {
	if len(standings) == 0 {
		return ScoreSummary{}
	}
	points := lo.Map(standings, func(s model.Standing, _ int) int {
		return s.TotalPoints
	})
	return ScoreSummary{
		Users:        len(points),
		MinPoints:    lo.Min(points),
		MaxPoints:    lo.Max(points),
		SumPoints:    lo.Sum(points),
		ZeroScorings: lo.Count(points, 0),
	}
}

// RankStandings returns the n best standings, highest total first.
func RankStandings(standings []model.Standing, n int) []LeaderboardEntry {
	sorted := slices.Clone(standings)
	slices.SortStableFunc(sorted, func(a, b model.Standing) int {
		return b.TotalPoints - a.TotalPoints
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}

	entries := make([]LeaderboardEntry, len(sorted))
	for i, s := range sorted {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      s.UserID.Hex(),
			Name:        s.Name,
			TotalPoints: s.TotalPoints,
		}
	}
	return entries
}

// ReportService writes run reports through a storage provider.
type ReportService struct {
	Storage StorageProvider
}

func NewReportService(storage StorageProvider) *ReportService {
	return &ReportService{Storage: storage}
}

func ReportFilename(runID string) string {
	return fmt.Sprintf("seed-report-%s.json", runID)
}

// Export returns the report location, or "" when no storage is configured.
func (s *ReportService) Export(ctx context.Context, report *RunReport) (string, error) {
	if s == nil || s.Storage == nil {
		return "", nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	return s.Storage.Upload(ctx, ReportFilename(report.RunID), bytes.NewReader(data), int64(len(data)), util.MimeJSON)
}
