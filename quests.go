package main

import (
	"encoding/json"
	"log"
	"net/http"
)

// QuestType is the closed set of actions that can trigger a quest.
type QuestType string

const (
	QuestPost  QuestType = "post"
	QuestDaily QuestType = "daily"
	QuestLike  QuestType = "like"
	QuestBoost QuestType = "boost"
	QuestChat  QuestType = "chat"
)

type Quest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reward      int       `json:"reward"`
	XPReward    int       `json:"xp_reward"`
	Type        QuestType `json:"type"`
	Goal        int       `json:"goal"`
}

// questCatalog is static; per-user state is only the completed id list.
var questCatalog = []Quest{
	{ID: "q1", Title: "First Steps", Description: "Create your first post.", Reward: 500, XPReward: 1000, Type: QuestPost, Goal: 1},
	{ID: "q2", Title: "Socializer", Description: "Add your first friend.", Reward: 300, XPReward: 500, Type: QuestDaily, Goal: 1},
	{ID: "q3", Title: "Philanthropist", Description: "Like 5 posts.", Reward: 200, XPReward: 400, Type: QuestLike, Goal: 5},
	{ID: "q4", Title: "Booster", Description: "Boost a post.", Reward: 1000, XPReward: 2000, Type: QuestBoost, Goal: 1},
	{ID: "q5", Title: "Chatterbox", Description: "Send a message (AI or friend).", Reward: 150, XPReward: 300, Type: QuestChat, Goal: 1},
}

func findQuest(questID string) (Quest, bool) {
	for _, q := range questCatalog {
		if q.ID == questID {
			return q, true
		}
	}
	return Quest{}, false
}

// completeQuest grants a quest's reward exactly once per (user, quest). Call
// sites fire it opportunistically from the action that satisfies the quest;
// repeats and unknown ids are no-ops.
func completeQuest(userID int, questID string) {
	quest, ok := findQuest(questID)
	if !ok {
		return
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM completed_quests WHERE user_id = ? AND quest_id = ?",
		userID, questID).Scan(&exists); err == nil {
		return
	}

	if _, err := db.Exec("INSERT INTO completed_quests (user_id, quest_id) VALUES (?, ?)", userID, questID); err != nil {
		log.Printf("[Quests] Recording quest %s for user %d failed: %v", questID, userID, err)
		return
	}

	addReward(userID, quest.Reward, quest.XPReward)
	notifyQuestCompleted(userID, quest)
	log.Printf("[Quests] User %d completed quest %s (%s)", userID, questID, quest.Title)
}

func getQuestsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(questCatalog)
}
