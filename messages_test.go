package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageRewardsSender(t *testing.T) {
	setupTestDB(t)
	sender := createTestUser(t, 1000, 0, 1, false)
	receiver := createTestUser(t, 1000, 0, 1, false)

	msg, err := sendMessage(sender, receiver, "hey")
	require.NoError(t, err)
	assert.Equal(t, sender, msg.SenderID)
	assert.Equal(t, receiver, msg.ReceiverID)

	// +2/+5 per message plus the one-time Chatterbox payout of 150/300.
	credits, xp, _ := userState(t, sender)
	assert.Equal(t, 1152, credits)
	assert.Equal(t, 305, xp)

	var exists int
	assert.NoError(t, db.QueryRow("SELECT 1 FROM completed_quests WHERE user_id = ? AND quest_id = 'q5'", sender).Scan(&exists))
}

func TestSendMessageValidation(t *testing.T) {
	setupTestDB(t)
	sender := createTestUser(t, 1000, 0, 1, false)

	_, err := sendMessage(sender, 0, "hey")
	assert.Error(t, err)

	_, err = sendMessage(sender, 99999, "hey")
	assert.Error(t, err)

	receiver := createTestUser(t, 1000, 0, 1, false)
	_, err = sendMessage(sender, receiver, "")
	assert.Error(t, err)
}

func TestMessagesConversationOrder(t *testing.T) {
	setupTestDB(t)
	a := createTestUser(t, 1000, 0, 1, false)
	b := createTestUser(t, 1000, 0, 1, false)
	c := createTestUser(t, 1000, 0, 1, false)

	_, err := sendMessage(a, b, "first")
	require.NoError(t, err)
	_, err = sendMessage(b, a, "second")
	require.NoError(t, err)
	_, err = sendMessage(a, c, "other thread")
	require.NoError(t, err)

	rows, err := db.Query(`
		SELECT content FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY id ASC`, a, b, b, a)
	require.NoError(t, err)
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		contents = append(contents, c)
	}
	assert.Equal(t, []string{"first", "second"}, contents)
}
