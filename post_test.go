package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRewardsAndQuest(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 1000, 0, 1, false)

	post, err := createPost(userID, "first post", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, userID, post.UserID)
	assert.Equal(t, "first post", post.Content)

	// +100/+250 for the post plus the First Steps payout of 500/1000;
	// 1250 XP rolls level 1 -> 2 leaving 250.
	credits, xp, level := userState(t, userID)
	assert.Equal(t, 1600, credits)
	assert.Equal(t, 250, xp)
	assert.Equal(t, 2, level)

	var exists int
	assert.NoError(t, db.QueryRow("SELECT 1 FROM completed_quests WHERE user_id = ? AND quest_id = 'q1'", userID).Scan(&exists))
}

func TestSecondPostPaysBaseRewardOnly(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t, 1000, 0, 1, false)

	_, err := createPost(userID, "one", "", "", false)
	require.NoError(t, err)
	creditsAfterFirst, _, _ := userState(t, userID)

	_, err = createPost(userID, "two", "", "", false)
	require.NoError(t, err)

	credits, _, _ := userState(t, userID)
	assert.Equal(t, creditsAfterFirst+100, credits)
}

func TestGetPostIncludesEngagement(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	fan := createTestUser(t, 1000, 0, 1, false)
	postID := createTestPost(t, author, "hello")

	_, err := toggleLike(postID, fan)
	require.NoError(t, err)
	_, err = addComment(postID, fan, "great")
	require.NoError(t, err)

	post, err := getPost(postID)
	require.NoError(t, err)
	assert.Equal(t, []int{fan}, post.Likes)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "great", post.Comments[0].Content)
}

func TestFollowingFeedFilters(t *testing.T) {
	setupTestDB(t)
	me := createTestUser(t, 1000, 0, 1, false)
	friend := createTestUser(t, 1000, 0, 1, false)
	stranger := createTestUser(t, 1000, 0, 1, false)

	createTestPost(t, me, "mine")
	createTestPost(t, friend, "from a friend")
	createTestPost(t, stranger, "noise")

	_, err := db.Exec("INSERT INTO friends (user_id, friend_id) VALUES (?, ?)", me, friend)
	require.NoError(t, err)

	posts, err := queryPosts(`
		WHERE p.user_id = ? OR p.user_id IN (SELECT friend_id FROM friends WHERE user_id = ?)
		ORDER BY p.created_at DESC, p.post_id DESC`, me, me)
	require.NoError(t, err)

	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.NotEqual(t, stranger, p.UserID)
	}
}

func TestIncrementView(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, 1000, 0, 1, false)
	postID := createTestPost(t, author, "watch me")

	require.NoError(t, incrementView(postID))
	require.NoError(t, incrementView(postID))

	post, err := getPost(postID)
	require.NoError(t, err)
	assert.Equal(t, 2, post.Views)
}
