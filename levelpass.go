package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

type LevelPassReward struct {
	Level   int    `json:"level"`
	Kind    string `json:"kind"` // credits, theme, badge, boost_limit
	Amount  int    `json:"amount,omitempty"`
	Theme   string `json:"theme,omitempty"`
	Badge   string `json:"badge,omitempty"`
	Label   string `json:"label"`
	Premium bool   `json:"premium"`
}

var levelPassCatalog = []LevelPassReward{
	{Level: 1, Kind: "credits", Amount: 500, Label: "500 Credits"},
	{Level: 2, Kind: "credits", Amount: 1000, Label: "1000 Credits"},
	{Level: 3, Kind: "theme", Theme: "neon_pink", Label: "Neon Pink Theme", Premium: true},
	{Level: 4, Kind: "credits", Amount: 1500, Label: "1500 Credits"},
	{Level: 5, Kind: "badge", Badge: "Beginner", Label: "Beginner Badge"},
	{Level: 6, Kind: "boost_limit", Amount: 1, Label: "+1 Daily Boost", Premium: true},
	{Level: 7, Kind: "credits", Amount: 2000, Label: "2000 Credits"},
	{Level: 8, Kind: "theme", Theme: "cyber_ocean", Label: "Cyber Ocean Theme", Premium: true},
	{Level: 9, Kind: "credits", Amount: 2500, Label: "2500 Credits"},
	{Level: 10, Kind: "badge", Badge: "Veteran", Label: "Veteran Badge", Premium: true},
}

func findLevelReward(level int) (LevelPassReward, bool) {
	for _, reward := range levelPassCatalog {
		if reward.Level == level {
			return reward, true
		}
	}
	return LevelPassReward{}, false
}

// claimLevelReward hands out one level pass entry. A claim must be reachable
// (user level high enough), unclaimed, and for premium rows backed by an
// Ultimate membership.
func claimLevelReward(userID, level int) ActionResult {
	reward, ok := findLevelReward(level)
	if !ok {
		return ActionResult{Success: false, Message: "Unknown level reward."}
	}

	var userLevel int
	var isUltimate bool
	if err := db.QueryRow("SELECT level, is_ultimate FROM users WHERE id = ?", userID).Scan(&userLevel, &isUltimate); err != nil {
		return ActionResult{Success: false, Message: "User not found."}
	}

	if userLevel < reward.Level {
		return ActionResult{Success: false, Message: fmt.Sprintf("Reach level %d to claim this reward.", reward.Level)}
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM claimed_level_rewards WHERE user_id = ? AND level = ?", userID, level).Scan(&exists); err == nil {
		return ActionResult{Success: false, Message: "Reward already claimed."}
	}

	if reward.Premium && !isUltimate {
		return ActionResult{Success: false, Message: "Ultimate membership required for premium rewards."}
	}

	if _, err := db.Exec("INSERT INTO claimed_level_rewards (user_id, level) VALUES (?, ?)", userID, level); err != nil {
		log.Printf("[LevelPass] Claim insert failed for user %d level %d: %v", userID, level, err)
		return ActionResult{Success: false, Message: "Database error."}
	}

	switch reward.Kind {
	case "credits":
		addRewardTitled(userID, reward.Amount, 0, "Level Pass Reward!")
	case "theme":
		db.Exec("INSERT OR IGNORE INTO unlocked_themes (user_id, theme_id) VALUES (?, ?)", userID, reward.Theme)
	case "badge":
		db.Exec("INSERT OR IGNORE INTO badges (user_id, badge) VALUES (?, ?)", userID, reward.Badge)
	case "boost_limit":
		db.Exec("UPDATE users SET boost_limit = boost_limit + ? WHERE id = ?", reward.Amount, userID)
	}

	if reward.Kind != "credits" {
		if user, err := loadUser(userID); err == nil {
			notifyUserUpdated(user)
		}
	}

	log.Printf("[LevelPass] User %d claimed level %d reward (%s)", userID, level, reward.Kind)
	return ActionResult{Success: true, Message: fmt.Sprintf("Claimed: %s", reward.Label)}
}

func getLevelPassHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(levelPassCatalog)
}

func claimLevelRewardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Level int `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Level == 0 {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	writeResult(w, claimLevelReward(userID, req.Level))
}
