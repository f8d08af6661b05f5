package service

import (
	"context"
	"course_seeder/internal/model"

	"github.com/go-redis/redis/v8"
)

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	Name        string `json:"name,omitempty"`
	TotalPoints int    `json:"totalPoints"`
}

// LeaderboardService mirrors recomputed totals into a Redis sorted set.
type LeaderboardService struct {
	Redis *redis.Client
	Key   string
}

func NewLeaderboardService(rdb *redis.Client, key string) *LeaderboardService {
	return &LeaderboardService{Redis: rdb, Key: key}
}

// Publish replaces the board with the given standings.
func (s *LeaderboardService) Publish(ctx context.Context, standings []model.Standing) error {
	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, s.Key)
	for _, standing := range standings {
		pipe.ZAdd(ctx, s.Key, &redis.Z{
			Score:  float64(standing.TotalPoints),
			Member: standing.UserID.Hex(),
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *LeaderboardService) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n <= 0 {
		return []LeaderboardEntry{}, nil
	}

	members, err := s.Redis.ZRevRangeWithScores(ctx, s.Key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(members))
	for i, m := range members {
		id, _ := m.Member.(string)
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      id,
			TotalPoints: int(m.Score),
		}
	}
	return entries, nil
}
