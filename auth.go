package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type VibeMetrics struct {
	Energy int `json:"energy"`
	Flow   int `json:"flow"`
	Impact int `json:"impact"`
}

type User struct {
	ID                  int         `json:"id"`
	Username            string      `json:"username"`
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	Password            string      `json:"password,omitempty"`
	Bio                 string      `json:"bio"`
	Avatar              string      `json:"avatar"`
	BannerURL           string      `json:"banner_url,omitempty"`
	Credits             int         `json:"credits"`
	XP                  int         `json:"xp"`
	Level               int         `json:"level"`
	ActiveTheme         string      `json:"active_theme"`
	IsUltimate          bool        `json:"is_ultimate"`
	IsUltimatePlus      bool        `json:"is_ultimate_plus"`
	IsInfinite          bool        `json:"is_infinite"`
	IsCertified         bool        `json:"is_certified"`
	BoostLimit          int         `json:"boost_limit"`
	DailyBoostsCount    int         `json:"daily_boosts_count"`
	LastBoostReset      string      `json:"last_boost_reset"`
	VibeScore           int         `json:"vibe_score"`
	VibeRank            string      `json:"vibe_rank"`
	VibeMetrics         VibeMetrics `json:"vibe_metrics"`
	Friends             []int       `json:"friends"`
	SavedPosts          []int       `json:"saved_posts"`
	UnlockedThemes      []string    `json:"unlocked_themes"`
	CompletedQuests     []string    `json:"completed_quests"`
	Badges              []string    `json:"badges"`
	ClaimedLevelRewards []int       `json:"claimed_level_rewards"`
}

const (
	signupCredits    = 1000
	signupBoostLimit = 3
	signupVibeRank   = "New Creator"
)

func jwtSecret() []byte {
	if s := os.Getenv("VIBE_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("vibe-dev-secret")
}

func generateJWT(userID int, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString(jwtSecret())
}

// ExtractUserIDFromToken validates the token and returns the user id claim.
func ExtractUserIDFromToken(tokenString string) (int, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	if userID, ok := claims["user_id"].(float64); ok {
		return int(userID), nil
	}

	return 0, errors.New("user_id not found in token")
}

// Middleware for JWT auth
func jwtMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		userID, err := ExtractUserIDFromToken(tokenString)
		if err != nil {
			log.Printf("[JWT] Invalid token: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		r.Header.Set("User-ID", strconv.Itoa(userID))
		next(w, r)
	}
}

func currentUserID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.Header.Get("User-ID"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	req.Username = strings.ToLower(strings.TrimPrefix(strings.ReplaceAll(req.Username, " ", "_"), "@"))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Username, email and password are required", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = "Vibe User"
	}
	if req.Avatar == "" {
		req.Avatar = fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", req.Username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	res, err := db.Exec(`INSERT INTO users (username, name, email, password, bio, avatar, credits, boost_limit, vibe_rank, last_boost_reset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Username, req.Name, req.Email, string(hashedPassword),
		"New member of the Vibe community.", req.Avatar,
		signupCredits, signupBoostLimit, signupVibeRank, today())
	if err != nil {
		log.Printf("[Auth] Register failed for %s: %v", req.Username, err)
		http.Error(w, "Error registering user", http.StatusInternalServerError)
		return
	}

	userID64, _ := res.LastInsertId()
	userID := int(userID64)

	if _, err := db.Exec("INSERT INTO unlocked_themes (user_id, theme_id) VALUES (?, 'default')", userID); err != nil {
		log.Printf("[Auth] Unlocking default theme failed: %v", err)
	}

	token, err := generateJWT(userID, req.Username)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	user, err := loadUser(userID)
	if err != nil {
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}

	log.Printf("[Auth] Registered user %d (@%s)", userID, req.Username)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"token": token, "user": user})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Identifier string `json:"identifier"` // email or @username
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	identifier := strings.TrimPrefix(req.Identifier, "@")

	var userID int
	var username, storedPassword string
	err := db.QueryRow("SELECT id, username, password FROM users WHERE email = ? OR username = ?",
		identifier, identifier).Scan(&userID, &username, &storedPassword)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedPassword), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := generateJWT(userID, username)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	user, err := loadUser(userID)
	if err != nil {
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"token": token, "user": user})
}
