package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const (
	aiImageCost = 500
	aiVideoCost = 2000
)

func aiUnavailable(w http.ResponseWriter) bool {
	if ai == nil {
		http.Error(w, "AI features are unavailable", http.StatusServiceUnavailable)
		return true
	}
	return false
}

func decodePrompt(w http.ResponseWriter, r *http.Request) (userID int, prompt string, thinking bool, ok bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return 0, "", false, false
	}

	userID, authed := currentUserID(r)
	if !authed {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, "", false, false
	}

	var req struct {
		Prompt   string `json:"prompt"`
		Thinking bool   `json:"thinking"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		http.Error(w, "Prompt is required", http.StatusBadRequest)
		return 0, "", false, false
	}

	return userID, req.Prompt, req.Thinking, true
}

// requireUltimateWithCredits gates the paid generators: Ultimate membership
// plus enough credits to cover the generation cost.
func requireUltimateWithCredits(w http.ResponseWriter, userID, cost int) bool {
	var credits int
	var isUltimate bool
	if err := db.QueryRow("SELECT credits, is_ultimate FROM users WHERE id = ?", userID).Scan(&credits, &isUltimate); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	if !isUltimate {
		writeResult(w, ActionResult{Success: false, Message: "Ultimate membership required."})
		return false
	}
	if credits < cost {
		writeResult(w, ActionResult{Success: false, Message: fmt.Sprintf("Insufficient credits (%d required).", cost)})
		return false
	}
	return true
}

func aiChatHandler(w http.ResponseWriter, r *http.Request) {
	if aiUnavailable(w) {
		return
	}
	userID, prompt, thinking, ok := decodePrompt(w, r)
	if !ok {
		return
	}

	text, err := ai.Chat(r.Context(), prompt, thinking)
	if err != nil {
		log.Printf("[AI] Chat failed: %v", err)
		http.Error(w, "AI request failed", http.StatusBadGateway)
		return
	}

	addRewardTitled(userID, 5, 20, "AI Chat Reward!")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"text": text})
}

func aiSearchHandler(w http.ResponseWriter, r *http.Request) {
	if aiUnavailable(w) {
		return
	}
	userID, query, _, ok := decodePrompt(w, r)
	if !ok {
		return
	}

	text, citations, err := ai.Search(r.Context(), query)
	if err != nil {
		log.Printf("[AI] Search failed: %v", err)
		http.Error(w, "AI request failed", http.StatusBadGateway)
		return
	}

	addRewardTitled(userID, 10, 30, "AI Search Reward!")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"text":      text,
		"citations": citations,
	})
}

func aiImageHandler(w http.ResponseWriter, r *http.Request) {
	if aiUnavailable(w) {
		return
	}
	userID, prompt, _, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	if !requireUltimateWithCredits(w, userID, aiImageCost) {
		return
	}

	dataURL, err := ai.GenerateImage(r.Context(), prompt)
	if err != nil {
		log.Printf("[AI] Image generation failed: %v", err)
		http.Error(w, "AI request failed", http.StatusBadGateway)
		return
	}

	addRewardTitled(userID, -aiImageCost, 50, "Image Generated!")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"image": dataURL})
}

func aiVideoHandler(w http.ResponseWriter, r *http.Request) {
	if aiUnavailable(w) {
		return
	}
	userID, prompt, _, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	if !requireUltimateWithCredits(w, userID, aiVideoCost) {
		return
	}

	videoURL, err := ai.GenerateVideo(r.Context(), prompt)
	if err != nil {
		log.Printf("[AI] Video generation failed: %v", err)
		http.Error(w, "AI request failed", http.StatusBadGateway)
		return
	}

	addRewardTitled(userID, -aiVideoCost, 200, "Video Generated!")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"video": videoURL})
}
