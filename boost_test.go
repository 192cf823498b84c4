package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoostPostSuccess(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 1000, 0, 1, false)
	postID := createTestPost(t, author, "boost me")

	res := boostPost(postID, booster)
	require.True(t, res.Success, res.Message)

	// Boost: -250 credits, +500 XP. First boost also completes the Booster
	// quest for +1000 credits and +2000 XP, which rolls level 1 -> 2.
	credits, xp, level := userState(t, booster)
	assert.Equal(t, 1750, credits)
	assert.Equal(t, 1500, xp)
	assert.Equal(t, 2, level)

	var count int
	require.NoError(t, db.QueryRow("SELECT daily_boosts_count FROM users WHERE id = ?", booster).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestBoostPostTwiceIsRejected(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 1000, 0, 1, false)
	postID := createTestPost(t, author, "boost me")

	require.True(t, boostPost(postID, booster).Success)
	res := boostPost(postID, booster)
	assert.False(t, res.Success)
	assert.Equal(t, "Post already boosted.", res.Message)

	// Credits debited exactly once (plus the one-time Booster quest payout).
	credits, _, _ := userState(t, booster)
	assert.Equal(t, 1750, credits)

	var boosts int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM post_boosts WHERE post_id = ?", postID).Scan(&boosts))
	assert.Equal(t, 1, boosts)
}

func TestBoostPostInsufficientCredits(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 200, 0, 1, false)
	postID := createTestPost(t, author, "boost me")

	res := boostPost(postID, booster)
	assert.False(t, res.Success)
	assert.Equal(t, "Insufficient credits (250 required).", res.Message)

	credits, _, _ := userState(t, booster)
	assert.Equal(t, 200, credits)
}

func TestBoostPostDailyLimitStandard(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 10000, 0, 1, false)

	for i := 0; i < 3; i++ {
		postID := createTestPost(t, author, fmt.Sprintf("post %d", i))
		require.True(t, boostPost(postID, booster).Success)
	}

	postID := createTestPost(t, author, "one too many")
	res := boostPost(postID, booster)
	assert.False(t, res.Success)
	assert.Equal(t, "Daily boost limit reached (3/3).", res.Message)
}

func TestBoostPostDailyResetOnNewDay(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 10000, 0, 1, false)

	// Pretend the limit was exhausted yesterday.
	_, err := db.Exec("UPDATE users SET daily_boosts_count = 3, last_boost_reset = '2000-01-01' WHERE id = ?", booster)
	require.NoError(t, err)

	postID := createTestPost(t, author, "fresh day")
	res := boostPost(postID, booster)
	require.True(t, res.Success, res.Message)

	var count int
	var lastReset string
	require.NoError(t, db.QueryRow("SELECT daily_boosts_count, last_boost_reset FROM users WHERE id = ?", booster).
		Scan(&count, &lastReset))
	assert.Equal(t, 1, count)
	assert.Equal(t, today(), lastReset)
}

func TestBoostPostUltimatePricing(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 1000, 0, 1, true)
	postID := createTestPost(t, author, "cheap boost")

	require.True(t, boostPost(postID, booster).Success)

	credits, _, _ := userState(t, booster)
	assert.Equal(t, 1000-100+1000, credits)
}

func TestBoostPostCompletesBoosterQuest(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	booster := createTestUser(t, 1000, 0, 1, false)
	postID := createTestPost(t, author, "boost me")

	require.True(t, boostPost(postID, booster).Success)

	var exists int
	err := db.QueryRow("SELECT 1 FROM completed_quests WHERE user_id = ? AND quest_id = 'q4'", booster).Scan(&exists)
	assert.NoError(t, err)

	// Boost debit plus the Booster quest payout.
	credits, _, _ := userState(t, booster)
	assert.Equal(t, 1000-250+1000, credits)
}
