package main

import (
	"fmt"
	"log"
	"net/http"
)

const (
	boostCostStandard  = 250
	boostCostUltimate  = 100
	boostLimitStandard = 3
	boostLimitUltimate = 10
	boostXPReward      = 500
)

// boostPost spends credits to boost a post. Checks run in order: daily limit,
// already boosted, affordability. The boost counter resets the first time a
// user boosts on a new day. Failures are outcomes, not errors.
func boostPost(postID, userID int) ActionResult {
	authorID, err := postAuthor(postID)
	if err != nil {
		return ActionResult{Success: false, Message: "Post not found."}
	}

	ledgerMu.Lock()

	var credits, xp, level, boostsToday int
	var isUltimate bool
	var lastReset string
	err = db.QueryRow(`SELECT credits, xp, level, is_ultimate, daily_boosts_count, last_boost_reset
		FROM users WHERE id = ?`, userID).
		Scan(&credits, &xp, &level, &isUltimate, &boostsToday, &lastReset)
	if err != nil {
		ledgerMu.Unlock()
		return ActionResult{Success: false, Message: "User not found."}
	}

	if lastReset != today() {
		boostsToday = 0
		lastReset = today()
	}

	limit := boostLimitStandard
	cost := boostCostStandard
	if isUltimate {
		limit = boostLimitUltimate
		cost = boostCostUltimate
	}

	if boostsToday >= limit {
		db.Exec("UPDATE users SET daily_boosts_count = ?, last_boost_reset = ? WHERE id = ?",
			boostsToday, lastReset, userID)
		ledgerMu.Unlock()
		return ActionResult{Success: false, Message: fmt.Sprintf("Daily boost limit reached (%d/%d).", limit, limit)}
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM post_boosts WHERE post_id = ? AND user_id = ?", postID, userID).Scan(&exists); err == nil {
		ledgerMu.Unlock()
		return ActionResult{Success: false, Message: "Post already boosted."}
	}

	if credits < cost {
		ledgerMu.Unlock()
		return ActionResult{Success: false, Message: fmt.Sprintf("Insufficient credits (%d required).", cost)}
	}

	if _, err := db.Exec("INSERT INTO post_boosts (post_id, user_id) VALUES (?, ?)", postID, userID); err != nil {
		ledgerMu.Unlock()
		log.Printf("[Boost] Insert failed for post %d: %v", postID, err)
		return ActionResult{Success: false, Message: "Database error."}
	}

	newXP, newLevel := levelUp(xp+boostXPReward, level)
	_, err = db.Exec(`UPDATE users SET credits = ?, xp = ?, level = ?, daily_boosts_count = ?, last_boost_reset = ?
		WHERE id = ?`,
		credits-cost, newXP, newLevel, boostsToday+1, lastReset, userID)
	ledgerMu.Unlock()
	if err != nil {
		log.Printf("[Boost] Ledger update failed for user %d: %v", userID, err)
		return ActionResult{Success: false, Message: "Database error."}
	}

	completeQuest(userID, "q4")
	updateVibeScore(userID)
	updateVibeScore(authorID)

	if user, err := loadUser(userID); err == nil {
		notifyUserUpdated(user)
	}
	notifyRewardToast(userID, -cost, boostXPReward, "Post Boosted!")

	log.Printf("[Boost] User %d boosted post %d (%d/%d today)", userID, postID, boostsToday+1, limit)
	return ActionResult{Success: true, Message: "Post boosted!"}
}

func boostPostHandler(w http.ResponseWriter, r *http.Request) {
	postID, userID, ok := engagementRequest(w, r)
	if !ok {
		return
	}
	writeResult(w, boostPost(postID, userID))
}
