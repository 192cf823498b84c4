package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimLevelRewardCredits(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 0, 0, 2, false)

	res := claimLevelReward(userID, 1)
	require.True(t, res.Success, res.Message)

	credits, _, _ := userState(t, userID)
	assert.Equal(t, 500, credits)
}

func TestClaimLevelRewardRequiresLevel(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 0, 0, 1, false)

	res := claimLevelReward(userID, 4)
	assert.False(t, res.Success)
	assert.Equal(t, "Reach level 4 to claim this reward.", res.Message)
}

func TestClaimLevelRewardOnlyOnce(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 0, 0, 5, false)

	require.True(t, claimLevelReward(userID, 2).Success)
	res := claimLevelReward(userID, 2)
	assert.False(t, res.Success)
	assert.Equal(t, "Reward already claimed.", res.Message)

	credits, _, _ := userState(t, userID)
	assert.Equal(t, 1000, credits)
}

func TestClaimLevelRewardPremiumNeedsUltimate(t *testing.T) {
	setupTestDB(t)
	standard := createTestUser(t, 0, 0, 10, false)
	ultimate := createTestUser(t, 0, 0, 10, true)

	res := claimLevelReward(standard, 3)
	assert.False(t, res.Success)
	assert.Equal(t, "Ultimate membership required for premium rewards.", res.Message)

	res = claimLevelReward(ultimate, 3)
	require.True(t, res.Success, res.Message)

	var exists int
	assert.NoError(t, db.QueryRow("SELECT 1 FROM unlocked_themes WHERE user_id = ? AND theme_id = 'neon_pink'", ultimate).Scan(&exists))
}

func TestClaimLevelRewardBadgeAndBoostLimit(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 0, 0, 10, true)

	require.True(t, claimLevelReward(userID, 5).Success)
	var exists int
	assert.NoError(t, db.QueryRow("SELECT 1 FROM badges WHERE user_id = ? AND badge = 'Beginner'", userID).Scan(&exists))

	require.True(t, claimLevelReward(userID, 6).Success)
	var limit int
	require.NoError(t, db.QueryRow("SELECT boost_limit FROM users WHERE id = ?", userID).Scan(&limit))
	assert.Equal(t, 4, limit)
}
