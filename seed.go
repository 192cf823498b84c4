package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// seedInitialData creates the official account and a handful of sample video
// posts so a fresh database is not empty. Safe to call on every startup.
func seedInitialData() {
	var exists int
	if err := db.QueryRow("SELECT 1 FROM users WHERE username = 'vibe_official'").Scan(&exists); err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("vibe_official"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] Hashing failed: %v", err)
		return
	}

	res, err := db.Exec(`INSERT INTO users
		(username, name, email, password, bio, avatar,
		 credits, xp, level, is_ultimate, is_ultimate_plus, is_infinite, is_certified,
		 boost_limit, vibe_score, vibe_rank, vibe_energy, vibe_flow, vibe_impact, last_boost_reset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"vibe_official", "Vibe", "official@vibe.app", string(hashed),
		"The official Vibe account. Welcome to the community!",
		"https://api.dicebear.com/7.x/avataaars/svg?seed=vibe_official",
		1000, 0, 1, true, true, true, true,
		10, 999, "Top 1% of creators this month", 99, 99, 99, today())
	if err != nil {
		log.Printf("[Seed] Creating official account failed: %v", err)
		return
	}

	officialID64, _ := res.LastInsertId()
	officialID := int(officialID64)

	db.Exec("INSERT INTO unlocked_themes (user_id, theme_id) VALUES (?, 'default')", officialID)

	samples := []struct {
		content   string
		mediaURL  string
		isPremium bool
	}{
		{"Welcome to Vibe! Post, boost, and level up.", "https://cdn.vibe.app/samples/welcome.mp4", false},
		{"Boosts put your posts in front of everyone. Try one!", "https://cdn.vibe.app/samples/boost.mp4", false},
		{"Ultimate members unlock premium games and AI image generation.", "https://cdn.vibe.app/samples/ultimate.mp4", true},
		{"Sneak peek: AI video generation is live for Ultimate members.", "https://cdn.vibe.app/samples/veo.mp4", true},
	}
	for _, s := range samples {
		_, err := db.Exec(`INSERT INTO posts (user_id, content, media_url, media_type, is_premium, created_at)
			VALUES (?, ?, ?, 'video', ?, ?)`,
			officialID, s.content, s.mediaURL, s.isPremium, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			log.Printf("[Seed] Sample post failed: %v", err)
		}
	}

	log.Printf("[Seed] Created official account (user %d) with %d sample posts", officialID, len(samples))
}
