package loadgen

import (
	"fmt"
	"log"
)

// verifyResults checks leaderboard ordering, rank/leaderboard agreement, and
// the tie-sharing rank sequence.
func verifyResults(ranks []RankEntry, leaderboard []LeaderboardRow, verbose bool) error {
	log.Println("verifying results...")

	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	if err := verifyLeaderboardOrdering(leaderboard); err != nil {
		return err
	}
	if err := verifyRankSequence(leaderboard); err != nil {
		return err
	}
	if err := verifyRankAgreement(ranks, leaderboard); err != nil {
		log.Printf("rank agreement warning: %v", err)
	}

	displayTopPerformers(leaderboard, verbose)

	log.Println("result verification completed")
	return nil
}

// verifyLeaderboardOrdering checks scores are non-increasing.
func verifyLeaderboardOrdering(leaderboard []LeaderboardRow) error {
	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Score > leaderboard[i-1].Score {
			return fmt.Errorf("leaderboard not sorted: entry %d has higher score than entry %d", i, i-1)
		}
	}
	return nil
}

// verifyRankSequence checks ranks follow the shared-rank convention: tied
// scores carry the same rank and the next distinct score takes its absolute
// position.
func verifyRankSequence(leaderboard []LeaderboardRow) error {
	if leaderboard[0].Rank != 1 {
		return fmt.Errorf("top entry has rank %d, expected 1", leaderboard[0].Rank)
	}
	for i := 1; i < len(leaderboard); i++ {
		prev := leaderboard[i-1]
		cur := leaderboard[i]
		switch {
		case cur.Score == prev.Score && cur.Rank != prev.Rank:
			return fmt.Errorf("tied entries %d and %d carry different ranks (%d vs %d)",
				i-1, i, prev.Rank, cur.Rank)
		case cur.Score < prev.Score && cur.Rank != i+1:
			return fmt.Errorf("entry %d has rank %d, expected %d after score drop", i, cur.Rank, i+1)
		}
	}
	return nil
}

// verifyRankAgreement cross-checks individual rank lookups against the
// leaderboard rows that cover the same students.
func verifyRankAgreement(ranks []RankEntry, leaderboard []LeaderboardRow) error {
	byStudent := make(map[string]RankEntry, len(ranks))
	for _, r := range ranks {
		byStudent[r.StudentID] = r
	}

	for _, row := range leaderboard {
		r, ok := byStudent[row.StudentID]
		if !ok {
			continue
		}
		if r.Rank == nil || *r.Rank != row.Rank {
			return fmt.Errorf("rank lookup for %s disagrees with leaderboard (lookup=%v, board=%d)",
				row.StudentID, r.Rank, row.Rank)
		}
		if r.Score != row.Score {
			return fmt.Errorf("score lookup for %s disagrees with leaderboard (lookup=%.2f, board=%.2f)",
				row.StudentID, r.Score, row.Score)
		}
	}
	return nil
}

// displayTopPerformers shows the top leaderboard rows.
func displayTopPerformers(leaderboard []LeaderboardRow, verbose bool) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}

	log.Printf("top %d students:", topN)
	for i := 0; i < topN; i++ {
		row := leaderboard[i]
		log.Printf("   %d. %s - score: %.2f", row.Rank, row.StudentID, row.Score)
	}

	if verbose && len(leaderboard) > 0 {
		sum := 0.0
		for _, row := range leaderboard {
			sum += row.Score
		}
		log.Printf("score statistics: avg=%.2f max=%.2f min=%.2f",
			sum/float64(len(leaderboard)), leaderboard[0].Score, leaderboard[len(leaderboard)-1].Score)
	}
}
