package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

type ThemeItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cost  int    `json:"cost"`
}

var themeCatalog = []ThemeItem{
	{ID: "neon", Name: "Neon", Cost: 500},
	{ID: "gold", Name: "Gold", Cost: 2000},
	{ID: "matrix", Name: "Matrix", Cost: 1000},
	{ID: "ruby", Name: "Ruby", Cost: 1000},
	{ID: "cyber_ocean", Name: "Cyber Ocean", Cost: 1500},
	{ID: "neon_pink", Name: "Neon Pink", Cost: 1500},
	{ID: "emerald", Name: "Emerald", Cost: 1500},
}

func findTheme(themeID string) (ThemeItem, bool) {
	for _, theme := range themeCatalog {
		if theme.ID == themeID {
			return theme, true
		}
	}
	return ThemeItem{}, false
}

// buyMembership upgrades the account tier. "real_money" grants both tiers
// without touching the credit balance, everything else debits credits.
func buyMembership(userID int, tier string) ActionResult {
	var credits, boostLimit int
	if err := db.QueryRow("SELECT credits, boost_limit FROM users WHERE id = ?", userID).Scan(&credits, &boostLimit); err != nil {
		return ActionResult{Success: false, Message: "User not found."}
	}

	switch tier {
	case "ultimate":
		cost := 10000
		if credits < cost {
			return ActionResult{Success: false, Message: fmt.Sprintf("Insufficient credits (%d required).", cost)}
		}
		db.Exec("UPDATE users SET credits = credits - ?, is_ultimate = 1, boost_limit = ? WHERE id = ?",
			cost, maxInt(boostLimit, 10), userID)
	case "ultimate_plus":
		cost := 50000
		if credits < cost {
			return ActionResult{Success: false, Message: fmt.Sprintf("Insufficient credits (%d required).", cost)}
		}
		db.Exec("UPDATE users SET credits = credits - ?, is_ultimate = 1, is_ultimate_plus = 1, boost_limit = ? WHERE id = ?",
			cost, maxInt(boostLimit, 25), userID)
	case "real_money":
		db.Exec("UPDATE users SET is_ultimate = 1, boost_limit = ? WHERE id = ?",
			maxInt(boostLimit, 10), userID)
	default:
		return ActionResult{Success: false, Message: "Unknown membership tier."}
	}

	if user, err := loadUser(userID); err == nil {
		notifyUserUpdated(user)
	}

	log.Printf("[Store] User %d purchased membership %q", userID, tier)
	return ActionResult{Success: true, Message: "Membership activated!"}
}

// buyTheme unlocks and activates a theme. Already-owned themes activate for
// free on subsequent purchases.
func buyTheme(userID int, themeID string) ActionResult {
	theme, ok := findTheme(themeID)
	if !ok {
		return ActionResult{Success: false, Message: "Unknown theme."}
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM unlocked_themes WHERE user_id = ? AND theme_id = ?", userID, themeID).Scan(&exists); err == nil {
		db.Exec("UPDATE users SET active_theme = ? WHERE id = ?", themeID, userID)
		if user, err := loadUser(userID); err == nil {
			notifyUserUpdated(user)
		}
		return ActionResult{Success: true, Message: "Theme activated!"}
	}

	var credits int
	if err := db.QueryRow("SELECT credits FROM users WHERE id = ?", userID).Scan(&credits); err != nil {
		return ActionResult{Success: false, Message: "User not found."}
	}
	if credits < theme.Cost {
		return ActionResult{Success: false, Message: fmt.Sprintf("Insufficient credits (%d required).", theme.Cost)}
	}

	db.Exec("INSERT INTO unlocked_themes (user_id, theme_id) VALUES (?, ?)", userID, themeID)
	db.Exec("UPDATE users SET credits = credits - ?, active_theme = ? WHERE id = ?", theme.Cost, themeID, userID)

	if user, err := loadUser(userID); err == nil {
		notifyUserUpdated(user)
	}

	log.Printf("[Store] User %d bought theme %q for %d credits", userID, themeID, theme.Cost)
	return ActionResult{Success: true, Message: fmt.Sprintf("Theme unlocked: %s", theme.Name)}
}

func buyMembershipHandler(w http.ResponseWriter, r *http.Request) {
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
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tier == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	writeResult(w, buyMembership(userID, req.Tier))
}

func buyThemeHandler(w http.ResponseWriter, r *http.Request) {
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
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Theme == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	writeResult(w, buyTheme(userID, req.Theme))
}
