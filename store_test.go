package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyMembershipUltimate(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 12000, 0, 1, false)

	res := buyMembership(userID, "ultimate")
	require.True(t, res.Success, res.Message)

	var credits, boostLimit int
	var isUltimate bool
	require.NoError(t, db.QueryRow("SELECT credits, is_ultimate, boost_limit FROM users WHERE id = ?", userID).
		Scan(&credits, &isUltimate, &boostLimit))
	assert.Equal(t, 2000, credits)
	assert.True(t, isUltimate)
	assert.Equal(t, 10, boostLimit)
}

func TestBuyMembershipInsufficientCredits(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 500, 0, 1, false)

	res := buyMembership(userID, "ultimate")
	assert.False(t, res.Success)
	assert.Equal(t, "Insufficient credits (10000 required).", res.Message)
}

func TestBuyMembershipRealMoneySkipsCredits(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 50, 0, 1, false)

	res := buyMembership(userID, "real_money")
	require.True(t, res.Success, res.Message)

	// Direct purchase grants Ultimate only, never Ultimate+.
	var credits, boostLimit int
	var isUltimate, isUltimatePlus bool
	require.NoError(t, db.QueryRow("SELECT credits, is_ultimate, is_ultimate_plus, boost_limit FROM users WHERE id = ?", userID).
		Scan(&credits, &isUltimate, &isUltimatePlus, &boostLimit))
	assert.Equal(t, 50, credits)
	assert.True(t, isUltimate)
	assert.False(t, isUltimatePlus)
	assert.Equal(t, 10, boostLimit)
}

func TestBuyThemeUnlocksAndActivates(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 1000, 0, 1, false)

	res := buyTheme(userID, "neon")
	require.True(t, res.Success, res.Message)

	var credits int
	var activeTheme string
	require.NoError(t, db.QueryRow("SELECT credits, active_theme FROM users WHERE id = ?", userID).
		Scan(&credits, &activeTheme))
	assert.Equal(t, 500, credits)
	assert.Equal(t, "neon", activeTheme)
}

func TestBuyThemeAlreadyOwnedActivatesFree(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 1000, 0, 1, false)

	require.True(t, buyTheme(userID, "neon").Success)
	_, err := db.Exec("UPDATE users SET active_theme = 'default' WHERE id = ?", userID)
	require.NoError(t, err)

	res := buyTheme(userID, "neon")
	require.True(t, res.Success)
	assert.Equal(t, "Theme activated!", res.Message)

	var credits int
	var activeTheme string
	require.NoError(t, db.QueryRow("SELECT credits, active_theme FROM users WHERE id = ?", userID).
		Scan(&credits, &activeTheme))
	assert.Equal(t, 500, credits)
	assert.Equal(t, "neon", activeTheme)
}

func TestBuyThemeUnknownOrUnaffordable(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 100, 0, 1, false)

	res := buyTheme(userID, "plaid")
	assert.False(t, res.Success)
	assert.Equal(t, "Unknown theme.", res.Message)

	res = buyTheme(userID, "gold")
	assert.False(t, res.Success)
	assert.Equal(t, "Insufficient credits (2000 required).", res.Message)
}
