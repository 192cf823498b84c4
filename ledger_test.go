package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelUp(t *testing.T) {
	tests := []struct {
		name      string
		xp        int
		level     int
		wantXP    int
		wantLevel int
	}{
		{"no rollover", 500, 1, 500, 1},
		{"exact threshold", 1000, 1, 0, 2},
		{"single rollover with remainder", 1200, 1, 200, 2},
		{"multiple rollovers", 3100, 1, 100, 3},
		{"level 2 below threshold", 1050, 2, 1050, 2},
		{"level 2 rollover", 2100, 2, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xp, level := levelUp(tt.xp, tt.level)
			assert.Equal(t, tt.wantXP, xp)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestAddRewardKeepsXPBelowThreshold(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 0, 900, 1, false)

	addReward(userID, 0, 350)

	_, xp, level := userState(t, userID)
	assert.Equal(t, 2, level)
	assert.Equal(t, 250, xp)
	assert.GreaterOrEqual(t, xp, 0)
	assert.Less(t, xp, level*1000)
}

func TestAddRewardHighLevelNoPrematureRollover(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 0, 950, 2, false)

	addReward(userID, 0, 100)

	_, xp, level := userState(t, userID)
	assert.Equal(t, 2, level)
	assert.Equal(t, 1050, xp)
}

func TestAddRewardCreditsCanGoNegative(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 100, 0, 1, false)

	addReward(userID, -500, 0)

	credits, _, _ := userState(t, userID)
	assert.Equal(t, -400, credits)
}

func TestAddRewardUnknownUserIsNoOp(t *testing.T) {
	setupTestDB(t)
	assert.Nil(t, addReward(99999, 100, 100))
}

func TestUpdateVibeScoreFormula(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 3, false)
	liker := createTestUser(t, 1000, 0, 1, false)
	postID := createTestPost(t, author, "hello")

	_, err := db.Exec("INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)", postID, liker)
	require.NoError(t, err)

	updateVibeScore(author)

	var score int
	var rank string
	require.NoError(t, db.QueryRow("SELECT vibe_score, vibe_rank FROM users WHERE id = ?", author).Scan(&score, &rank))
	// 500 + level*10 + likes*5 + boosts*20
	assert.Equal(t, 500+30+5, score)
	assert.Equal(t, "Top 13% of creators this month", rank)
}
