package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Post struct {
	ID        int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"media_url,omitempty"`
	MediaType string    `json:"media_type,omitempty"`
	RepostOf  *int      `json:"repost_of,omitempty"`
	IsPremium bool      `json:"is_premium,omitempty"`
	Views     int       `json:"views"`
	CreatedAt string    `json:"created_at"`
	Likes     []int     `json:"likes"`
	Boosts    []int     `json:"boosts"`
	Reposts   []int     `json:"reposts"`
	SavedBy   []int     `json:"saved_by"`
	Comments  []Comment `json:"comments"`
}

type Trend struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Hashtag  string `json:"hashtag"`
	Count    string `json:"count"`
	Color    string `json:"color"`
}

var trendCatalog = []Trend{
	{ID: "t1", Category: "TECH", Hashtag: "#VibeOnly", Count: "142K vibes", Color: "from-blue-400 to-purple-500"},
	{ID: "t2", Category: "CULTURE", Hashtag: "#GoodVibes", Count: "89K vibes", Color: "from-pink-400 to-rose-500"},
	{ID: "t3", Category: "GAMING", Hashtag: "#NexusPlay", Count: "64K vibes", Color: "from-emerald-400 to-teal-500"},
}

const postsBaseQuery = `
	SELECT p.post_id, p.user_id, p.content, p.media_url, p.media_type,
	       p.repost_of, p.is_premium, p.views, p.created_at, u.username
	FROM posts p
	JOIN users u ON p.user_id = u.id`

func scanPosts(rows *sql.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		var post Post
		var repostOf sql.NullInt64
		if err := rows.Scan(&post.ID, &post.UserID, &post.Content, &post.MediaURL, &post.MediaType,
			&repostOf, &post.IsPremium, &post.Views, &post.CreatedAt, &post.Username); err != nil {
			return nil, err
		}
		if repostOf.Valid {
			val := int(repostOf.Int64)
			post.RepostOf = &val
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Likes = intList("SELECT user_id FROM post_likes WHERE post_id = ?", posts[i].ID)
		posts[i].Boosts = intList("SELECT user_id FROM post_boosts WHERE post_id = ?", posts[i].ID)
		posts[i].Reposts = intList("SELECT user_id FROM post_reposts WHERE post_id = ?", posts[i].ID)
		posts[i].SavedBy = intList("SELECT user_id FROM post_saves WHERE post_id = ?", posts[i].ID)
		posts[i].Comments = loadComments(posts[i].ID)
	}
	return posts, nil
}

func queryPosts(clause string, args ...interface{}) ([]Post, error) {
	rows, err := db.Query(postsBaseQuery+" "+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func getPost(postID int) (*Post, error) {
	posts, err := queryPosts("WHERE p.post_id = ?", postID)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, sql.ErrNoRows
	}
	return &posts[0], nil
}

// createPost inserts a post and applies the creation reward hooks: +100
// credits, +250 XP, vibe recompute and the First Steps quest.
func createPost(userID int, content, mediaURL, mediaType string, isPremium bool) (*Post, error) {
	res, err := db.Exec(`INSERT INTO posts (user_id, content, media_url, media_type, is_premium, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, content, mediaURL, mediaType, isPremium, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	postID64, _ := res.LastInsertId()
	postID := int(postID64)

	addReward(userID, 100, 250)
	updateVibeScore(userID)
	completeQuest(userID, "q1")

	return getPost(postID)
}

func createPostHandler(w http.ResponseWriter, r *http.Request) {
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
		Content   string `json:"content"`
		MediaURL  string `json:"media_url"`
		MediaType string `json:"media_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}
	if req.MediaType != "" && req.MediaType != "image" && req.MediaType != "video" {
		http.Error(w, "Invalid media type", http.StatusBadRequest)
		return
	}

	post, err := createPost(userID, req.Content, req.MediaURL, req.MediaType, false)
	if err != nil {
		log.Printf("[Posts] Insert failed: %v", err)
		http.Error(w, "Error saving post", http.StatusInternalServerError)
		return
	}

	log.Printf("[Posts] User %d created new post (ID: %d)", userID, post.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// getPostsHandler serves the feed variants: for-you (default), following,
// saved, top (most liked) and boosted (weekly boosted), plus a q= text filter.
func getPostsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	feed := r.URL.Query().Get("feed")
	search := strings.ToLower(r.URL.Query().Get("q"))

	var posts []Post
	var err error

	switch feed {
	case "following":
		posts, err = queryPosts(`
			WHERE p.user_id = ? OR p.user_id IN (SELECT friend_id FROM friends WHERE user_id = ?)
			ORDER BY p.created_at DESC, p.post_id DESC`, userID, userID)
	case "saved":
		posts, err = queryPosts(`
			WHERE p.post_id IN (SELECT post_id FROM post_saves WHERE user_id = ?)
			ORDER BY p.created_at DESC, p.post_id DESC`, userID)
	case "top":
		posts, err = queryPosts(`
			LEFT JOIN post_likes l ON l.post_id = p.post_id
			GROUP BY p.post_id
			ORDER BY COUNT(l.user_id) DESC, p.post_id DESC`)
	case "boosted":
		posts, err = queryPosts(`
			JOIN post_boosts b ON b.post_id = p.post_id
			GROUP BY p.post_id
			ORDER BY COUNT(b.user_id) DESC, p.post_id DESC`)
	default:
		posts, err = queryPosts("ORDER BY p.created_at DESC, p.post_id DESC")
	}
	if err != nil {
		log.Printf("[Posts] Query failed: %v", err)
		http.Error(w, "Error retrieving posts", http.StatusInternalServerError)
		return
	}

	if search != "" {
		filtered := posts[:0]
		for _, p := range posts {
			if strings.Contains(strings.ToLower(p.Content), search) {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

func getPostByIDHandler(w http.ResponseWriter, r *http.Request) {
	postIDStr := strings.TrimPrefix(r.URL.Path, "/post/")
	postID, err := strconv.Atoi(postIDStr)
	if err != nil {
		http.Error(w, "Post ID is required", http.StatusBadRequest)
		return
	}

	post, err := getPost(postID)
	if err == sql.ErrNoRows {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[Posts] Query by ID failed: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

func incrementView(postID int) error {
	_, err := db.Exec("UPDATE posts SET views = views + 1 WHERE post_id = ?", postID)
	return err
}

func incrementViewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PostID int `json:"post_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == 0 {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := incrementView(req.PostID); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func getTrendsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trendCatalog)
}
