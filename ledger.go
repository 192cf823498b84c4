package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// ActionResult is the uniform outcome of business-rule checks (insufficient
// credits, daily limits, tier gating). Failures are values, never errors.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeResult(w http.ResponseWriter, res ActionResult) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// ledgerMu serializes every credit/XP mutation. SQLite reads and writes are
// individually atomic but the ledger does read-modify-write across queries.
var ledgerMu sync.Mutex

func today() string {
	return time.Now().Format("2006-01-02")
}

// levelUp applies the rollover rule: each level requires level*1000 XP, and
// overflow carries the remainder forward across as many levels as it covers.
func levelUp(xp, level int) (int, int) {
	for xp >= level*1000 {
		xp -= level * 1000
		level++
	}
	return xp, level
}

// addReward applies a credit/XP delta to a user, rolls levels over and
// notifies the user's live connections. Unknown user ids are a silent no-op.
// Credits are not floored: callers that charge for actions pre-check
// affordability, so a negative balance means a caller bug, not a crash.
func addReward(userID, credits, xp int) *User {
	return addRewardTitled(userID, credits, xp, "")
}

func addRewardTitled(userID, credits, xp int, title string) *User {
	ledgerMu.Lock()

	var curCredits, curXP, curLevel int
	err := db.QueryRow("SELECT credits, xp, level FROM users WHERE id = ?", userID).
		Scan(&curCredits, &curXP, &curLevel)
	if err != nil {
		ledgerMu.Unlock()
		log.Printf("[Ledger] Reward for unknown user %d ignored", userID)
		return nil
	}

	curCredits += credits
	newXP, newLevel := levelUp(curXP+xp, curLevel)

	_, err = db.Exec("UPDATE users SET credits = ?, xp = ?, level = ? WHERE id = ?",
		curCredits, newXP, newLevel, userID)
	ledgerMu.Unlock()
	if err != nil {
		log.Printf("[Ledger] Persisting reward for user %d failed: %v", userID, err)
		return nil
	}

	user, err := loadUser(userID)
	if err != nil {
		return nil
	}

	notifyUserUpdated(user)
	notifyRewardToast(userID, credits, xp, title)
	return user
}

// updateVibeScore recomputes the derived reputation values and persists them
// only when something actually changed, so listeners are not spammed.
func updateVibeScore(userID int) {
	var level int
	if err := db.QueryRow("SELECT level FROM users WHERE id = ?", userID).Scan(&level); err != nil {
		return
	}

	var postCount, totalLikes, totalBoosts int
	db.QueryRow("SELECT COUNT(*) FROM posts WHERE user_id = ?", userID).Scan(&postCount)
	db.QueryRow(`SELECT COUNT(*) FROM post_likes l JOIN posts p ON l.post_id = p.post_id WHERE p.user_id = ?`, userID).Scan(&totalLikes)
	db.QueryRow(`SELECT COUNT(*) FROM post_boosts b JOIN posts p ON b.post_id = p.post_id WHERE p.user_id = ?`, userID).Scan(&totalBoosts)

	newScore := 500 + level*10 + totalLikes*5 + totalBoosts*20
	newEnergy := minInt(99, 70+level*2)
	newFlow := minInt(99, 60+postCount*5)
	newImpact := minInt(99, 50+totalLikes*2)
	newRank := fmt.Sprintf("Top %d%% of creators this month", maxInt(1, 15-newScore/200))

	var oldScore, oldEnergy, oldFlow, oldImpact int
	var oldRank string
	err := db.QueryRow("SELECT vibe_score, vibe_rank, vibe_energy, vibe_flow, vibe_impact FROM users WHERE id = ?", userID).
		Scan(&oldScore, &oldRank, &oldEnergy, &oldFlow, &oldImpact)
	if err != nil {
		return
	}

	if newScore == oldScore && newRank == oldRank &&
		newEnergy == oldEnergy && newFlow == oldFlow && newImpact == oldImpact {
		return
	}

	_, err = db.Exec(`UPDATE users SET vibe_score = ?, vibe_rank = ?, vibe_energy = ?, vibe_flow = ?, vibe_impact = ? WHERE id = ?`,
		newScore, newRank, newEnergy, newFlow, newImpact, userID)
	if err != nil {
		log.Printf("[Ledger] Persisting vibe score for user %d failed: %v", userID, err)
		return
	}

	if user, err := loadUser(userID); err == nil {
		notifyUserUpdated(user)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
