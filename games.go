package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Game struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Premium bool   `json:"premium"`
}

var gameCatalog = []Game{
	{ID: "clicker", Name: "Vibe Clicker"},
	{ID: "snake", Name: "Neon Snake", Premium: true},
	{ID: "matrix", Name: "Matrix Runner", Premium: true},
	{ID: "math", Name: "Math Blitz", Premium: true},
}

func findGame(gameID string) (Game, bool) {
	for _, game := range gameCatalog {
		if game.ID == gameID {
			return game, true
		}
	}
	return Game{}, false
}

func getGamesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gameCatalog)
}

// reportGameScoreHandler converts a final score into rewards: every full 10
// points pays +5 credits and +20 XP. Premium games require Ultimate.
func reportGameScoreHandler(w http.ResponseWriter, r *http.Request) {
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
		Game  string `json:"game"`
		Score int    `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	game, found := findGame(req.Game)
	if !found {
		writeResult(w, ActionResult{Success: false, Message: "Unknown game."})
		return
	}
	if req.Score < 0 {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if game.Premium {
		var isUltimate bool
		if err := db.QueryRow("SELECT is_ultimate FROM users WHERE id = ?", userID).Scan(&isUltimate); err != nil || !isUltimate {
			writeResult(w, ActionResult{Success: false, Message: "Ultimate membership required."})
			return
		}
	}

	ticks := req.Score / 10
	if ticks > 0 {
		addRewardTitled(userID, ticks*5, ticks*20, "Game Reward!")
	}

	writeResult(w, ActionResult{Success: true, Message: fmt.Sprintf("Score recorded: %d", req.Score)})
}

// gameHeartbeatHandler pays a small XP drip while a session is active.
func gameHeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	addReward(userID, 0, 5)
	writeResult(w, ActionResult{Success: true, Message: "Keep playing!"})
}
