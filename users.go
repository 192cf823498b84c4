package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// loadUser returns the full user record including the per-user id lists.
func loadUser(userID int) (*User, error) {
	var u User
	err := db.QueryRow(`
		SELECT id, username, name, email, bio, avatar, banner_url,
		       credits, xp, level, active_theme,
		       is_ultimate, is_ultimate_plus, is_infinite, is_certified,
		       boost_limit, daily_boosts_count, last_boost_reset,
		       vibe_score, vibe_rank, vibe_energy, vibe_flow, vibe_impact
		FROM users WHERE id = ?`, userID).
		Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Bio, &u.Avatar, &u.BannerURL,
			&u.Credits, &u.XP, &u.Level, &u.ActiveTheme,
			&u.IsUltimate, &u.IsUltimatePlus, &u.IsInfinite, &u.IsCertified,
			&u.BoostLimit, &u.DailyBoostsCount, &u.LastBoostReset,
			&u.VibeScore, &u.VibeRank, &u.VibeMetrics.Energy, &u.VibeMetrics.Flow, &u.VibeMetrics.Impact)
	if err != nil {
		return nil, err
	}

	u.Friends = intList("SELECT friend_id FROM friends WHERE user_id = ?", userID)
	u.SavedPosts = intList("SELECT post_id FROM post_saves WHERE user_id = ?", userID)
	u.ClaimedLevelRewards = intList("SELECT level FROM claimed_level_rewards WHERE user_id = ?", userID)
	u.UnlockedThemes = stringList("SELECT theme_id FROM unlocked_themes WHERE user_id = ?", userID)
	u.CompletedQuests = stringList("SELECT quest_id FROM completed_quests WHERE user_id = ?", userID)
	u.Badges = stringList("SELECT badge FROM badges WHERE user_id = ?", userID)

	return &u, nil
}

func intList(query string, args ...interface{}) []int {
	rows, err := db.Query(query, args...)
	if err != nil {
		log.Printf("[Users] List query failed: %v", err)
		return []int{}
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func stringList(query string, args ...interface{}) []string {
	rows, err := db.Query(query, args...)
	if err != nil {
		log.Printf("[Users] List query failed: %v", err)
		return []string{}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func getMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := loadUser(userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func getUserHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/user/")
	targetID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := loadUser(targetID)
	if err == sql.ErrNoRows {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[Users] Lookup failed for %d: %v", targetID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func getAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := db.Query("SELECT id, username, name, avatar, level, vibe_score FROM users ORDER BY username ASC")
	if err != nil {
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	users := []map[string]interface{}{}
	for rows.Next() {
		var id, level, vibeScore int
		var username, name, avatar string
		if err := rows.Scan(&id, &username, &name, &avatar, &level, &vibeScore); err != nil {
			http.Error(w, "Error scanning user", http.StatusInternalServerError)
			return
		}
		users = append(users, map[string]interface{}{
			"id":         id,
			"username":   username,
			"name":       name,
			"avatar":     avatar,
			"level":      level,
			"vibe_score": vibeScore,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// Search by username or display name, "@" prefix tolerated.
func searchUsersHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimPrefix(r.URL.Query().Get("q"), "@"))
	if q == "" {
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	rows, err := db.Query(`
		SELECT id, username, name, avatar, level
		FROM users
		WHERE LOWER(username) LIKE '%' || ? || '%' OR LOWER(name) LIKE '%' || ? || '%'
		ORDER BY username ASC`, q, q)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	users := []map[string]interface{}{}
	for rows.Next() {
		var id, level int
		var username, name, avatar string
		if err := rows.Scan(&id, &username, &name, &avatar, &level); err == nil {
			users = append(users, map[string]interface{}{
				"id": id, "username": username, "name": name, "avatar": avatar, "level": level,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func updateProfileHandler(w http.ResponseWriter, r *http.Request) {
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
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		Avatar      string `json:"avatar"`
		BannerURL   string `json:"banner_url"`
		ActiveTheme string `json:"active_theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if req.ActiveTheme != "" {
		var exists int
		err := db.QueryRow("SELECT 1 FROM unlocked_themes WHERE user_id = ? AND theme_id = ?",
			userID, req.ActiveTheme).Scan(&exists)
		if err != nil {
			writeResult(w, ActionResult{Success: false, Message: "Theme is locked. Visit the store to unlock it."})
			return
		}
		if _, err := db.Exec("UPDATE users SET active_theme = ? WHERE id = ?", req.ActiveTheme, userID); err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	if req.Name != "" {
		db.Exec("UPDATE users SET name = ? WHERE id = ?", req.Name, userID)
	}
	if req.Bio != "" {
		db.Exec("UPDATE users SET bio = ? WHERE id = ?", req.Bio, userID)
	}
	if req.Avatar != "" {
		db.Exec("UPDATE users SET avatar = ? WHERE id = ?", req.Avatar, userID)
	}
	if req.BannerURL != "" {
		db.Exec("UPDATE users SET banner_url = ? WHERE id = ?", req.BannerURL, userID)
	}

	user, err := loadUser(userID)
	if err != nil {
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}
	notifyUserUpdated(user)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// toggleFriend adds friendID to userID's friend list, or removes it when
// already present. Befriending completes the Socializer quest.
func toggleFriend(userID, friendID int) error {
	var exists int
	err := db.QueryRow("SELECT 1 FROM friends WHERE user_id = ? AND friend_id = ?", userID, friendID).Scan(&exists)
	if err == nil {
		_, err = db.Exec("DELETE FROM friends WHERE user_id = ? AND friend_id = ?", userID, friendID)
		return err
	}

	var friendExists int
	if err := db.QueryRow("SELECT 1 FROM users WHERE id = ?", friendID).Scan(&friendExists); err != nil {
		return err
	}

	if _, err := db.Exec("INSERT INTO friends (user_id, friend_id) VALUES (?, ?)", userID, friendID); err != nil {
		return err
	}

	completeQuest(userID, "q2")
	return nil
}

func toggleFriendHandler(w http.ResponseWriter, r *http.Request) {
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
		FriendID int `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FriendID == 0 {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.FriendID == userID {
		http.Error(w, "Cannot befriend yourself", http.StatusBadRequest)
		return
	}

	if err := toggleFriend(userID, req.FriendID); err != nil {
		log.Printf("[Users] Friend toggle failed for %d -> %d: %v", userID, req.FriendID, err)
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user, err := loadUser(userID)
	if err != nil {
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}
	notifyUserUpdated(user)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Followers of a user are everyone whose friend list contains them.
func getFollowersHandler(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	rows, err := db.Query(`
		SELECT u.id, u.username, u.name, u.avatar
		FROM friends f
		JOIN users u ON f.user_id = u.id
		WHERE f.friend_id = ?
		ORDER BY u.username ASC`, targetID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	followers := []map[string]interface{}{}
	for rows.Next() {
		var id int
		var username, name, avatar string
		if err := rows.Scan(&id, &username, &name, &avatar); err == nil {
			followers = append(followers, map[string]interface{}{
				"id": id, "username": username, "name": name, "avatar": avatar,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"followers": followers,
		"count":     len(followers),
	})
}
