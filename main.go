package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env carries GEMINI_API_KEY and optional overrides; absence is fine in dev.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize the database
	initDB()
	defer db.Close()

	seedInitialData()

	provider, err := newGeminiProvider()
	if err != nil {
		log.Printf("[AI] Gemini unavailable: %v", err)
	} else {
		ai = provider
	}

	http.HandleFunc("/register", disableCORS(registerHandler))
	http.HandleFunc("/login", disableCORS(loginHandler))

	http.HandleFunc("/posts", disableCORS(jwtMiddleware(createPostHandler)))
	http.HandleFunc("/posts/all", disableCORS(jwtMiddleware(getPostsHandler)))
	http.HandleFunc("/post/", disableCORS(jwtMiddleware(getPostByIDHandler)))
	http.HandleFunc("/posts/view", disableCORS(jwtMiddleware(incrementViewHandler)))
	http.HandleFunc("/posts/like", disableCORS(jwtMiddleware(toggleLikeHandler)))
	http.HandleFunc("/posts/save", disableCORS(jwtMiddleware(toggleSaveHandler)))
	http.HandleFunc("/posts/repost", disableCORS(jwtMiddleware(toggleRepostHandler)))
	http.HandleFunc("/posts/boost", disableCORS(jwtMiddleware(boostPostHandler)))
	http.HandleFunc("/comments", disableCORS(jwtMiddleware(createCommentHandler)))
	http.HandleFunc("/comments/all", disableCORS(getCommentsByPostHandler))
	http.HandleFunc("/trends", disableCORS(getTrendsHandler))

	http.HandleFunc("/users", disableCORS(getAllUsersHandler))
	http.HandleFunc("/users/search", disableCORS(searchUsersHandler))
	http.HandleFunc("/user/", disableCORS(jwtMiddleware(getUserHandler)))
	http.HandleFunc("/me", disableCORS(jwtMiddleware(getMeHandler)))
	http.HandleFunc("/profile/update", disableCORS(jwtMiddleware(updateProfileHandler)))
	http.HandleFunc("/friends/toggle", disableCORS(jwtMiddleware(toggleFriendHandler)))
	http.HandleFunc("/followers", disableCORS(jwtMiddleware(getFollowersHandler)))

	http.HandleFunc("/ws", disableCORS(handleConnections))
	http.HandleFunc("/messages", disableCORS(jwtMiddleware(getMessagesHandler)))
	http.HandleFunc("/messages/send", disableCORS(jwtMiddleware(sendMessageHandler)))

	http.HandleFunc("/quests", disableCORS(getQuestsHandler))
	http.HandleFunc("/levelpass", disableCORS(jwtMiddleware(getLevelPassHandler)))
	http.HandleFunc("/levelpass/claim", disableCORS(jwtMiddleware(claimLevelRewardHandler)))

	http.HandleFunc("/store/membership", disableCORS(jwtMiddleware(buyMembershipHandler)))
	http.HandleFunc("/store/theme", disableCORS(jwtMiddleware(buyThemeHandler)))

	http.HandleFunc("/games", disableCORS(jwtMiddleware(getGamesHandler)))
	http.HandleFunc("/games/score", disableCORS(jwtMiddleware(reportGameScoreHandler)))
	http.HandleFunc("/games/heartbeat", disableCORS(jwtMiddleware(gameHeartbeatHandler)))

	http.HandleFunc("/ai/chat", disableCORS(jwtMiddleware(aiChatHandler)))
	http.HandleFunc("/ai/search", disableCORS(jwtMiddleware(aiSearchHandler)))
	http.HandleFunc("/ai/image", disableCORS(jwtMiddleware(aiImageHandler)))
	http.HandleFunc("/ai/video", disableCORS(jwtMiddleware(aiVideoHandler)))

	addr := os.Getenv("VIBE_ADDR")
	if addr == "" {
		addr = ":8088"
	}

	fmt.Println("Server running on", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func disableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}
