package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"
)

type Comment struct {
	ID        int    `json:"id"`
	PostID    int    `json:"post_id"`
	UserID    int    `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

var errPostNotFound = errors.New("post not found")

func postAuthor(postID int) (int, error) {
	var authorID int
	if err := db.QueryRow("SELECT user_id FROM posts WHERE post_id = ?", postID).Scan(&authorID); err != nil {
		return 0, errPostNotFound
	}
	return authorID, nil
}

// toggleLike adds or removes a like. Liking pays the liker +10/+25 and may
// complete the Philanthropist quest; unliking only removes the entry. The
// post author's vibe score is recomputed either way.
func toggleLike(postID, userID int) (bool, error) {
	authorID, err := postAuthor(postID)
	if err != nil {
		return false, err
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID).Scan(&exists); err == nil {
		if _, err := db.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID); err != nil {
			return false, err
		}
		updateVibeScore(authorID)
		return false, nil
	}

	if _, err := db.Exec("INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)", postID, userID); err != nil {
		return false, err
	}

	addReward(userID, 10, 25)

	var likeCount int
	db.QueryRow("SELECT COUNT(*) FROM post_likes WHERE user_id = ?", userID).Scan(&likeCount)
	if likeCount >= 5 {
		completeQuest(userID, "q3")
	}

	updateVibeScore(authorID)
	return true, nil
}

// toggleSave flips membership in the saved set. The post_saves table backs
// both views of the relation (the user's saved list and the post's savedBy).
func toggleSave(postID, userID int) (bool, error) {
	if _, err := postAuthor(postID); err != nil {
		return false, err
	}

	saved := false
	var exists int
	if err := db.QueryRow("SELECT 1 FROM post_saves WHERE post_id = ? AND user_id = ?", postID, userID).Scan(&exists); err == nil {
		if _, err := db.Exec("DELETE FROM post_saves WHERE post_id = ? AND user_id = ?", postID, userID); err != nil {
			return false, err
		}
	} else {
		if _, err := db.Exec("INSERT INTO post_saves (post_id, user_id) VALUES (?, ?)", postID, userID); err != nil {
			return false, err
		}
		saved = true
	}

	if user, err := loadUser(userID); err == nil {
		notifyUserUpdated(user)
	}
	return saved, nil
}

// toggleRepost creates a repost wrapper pointing at the original (+50/+100 to
// the reposter), or removes exactly the wrapper matching (author, repost_of)
// on the way back. The original post is never touched.
func toggleRepost(postID, userID int) (bool, error) {
	var content, mediaURL, mediaType string
	err := db.QueryRow("SELECT content, media_url, media_type FROM posts WHERE post_id = ?", postID).
		Scan(&content, &mediaURL, &mediaType)
	if err != nil {
		return false, errPostNotFound
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM post_reposts WHERE post_id = ? AND user_id = ?", postID, userID).Scan(&exists); err == nil {
		if _, err := db.Exec("DELETE FROM post_reposts WHERE post_id = ? AND user_id = ?", postID, userID); err != nil {
			return false, err
		}
		_, err := db.Exec(`DELETE FROM posts WHERE post_id = (
			SELECT post_id FROM posts WHERE repost_of = ? AND user_id = ? LIMIT 1)`, postID, userID)
		return false, err
	}

	if _, err := db.Exec("INSERT INTO post_reposts (post_id, user_id) VALUES (?, ?)", postID, userID); err != nil {
		return false, err
	}

	_, err = db.Exec(`INSERT INTO posts (user_id, content, media_url, media_type, repost_of, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, content, mediaURL, mediaType, postID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}

	addReward(userID, 50, 100)
	return true, nil
}

// addComment appends to the post's comment list and pays the commenter +20/+50.
func addComment(postID, userID int, content string) (*Comment, error) {
	if _, err := postAuthor(postID); err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec("INSERT INTO comments (post_id, user_id, content, created_at) VALUES (?, ?, ?, ?)",
		postID, userID, content, createdAt)
	if err != nil {
		return nil, err
	}

	commentID64, _ := res.LastInsertId()
	addReward(userID, 20, 50)

	return &Comment{
		ID:        int(commentID64),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
	}, nil
}

func loadComments(postID int) []Comment {
	rows, err := db.Query(`
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.username
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		log.Printf("[Comments] Query failed for post %d: %v", postID, err)
		return []Comment{}
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.Username); err == nil {
			comments = append(comments, c)
		}
	}
	return comments
}

func engagementRequest(w http.ResponseWriter, r *http.Request) (postID, userID int, ok bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return 0, 0, false
	}

	userID, authed := currentUserID(r)
	if !authed {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	var req struct {
		PostID int `json:"post_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == 0 {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return 0, 0, false
	}

	return req.PostID, userID, true
}

func toggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	postID, userID, ok := engagementRequest(w, r)
	if !ok {
		return
	}

	liked, err := toggleLike(postID, userID)
	if err == errPostNotFound {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[Posts] Like toggle failed: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"liked": liked})
}

func toggleSaveHandler(w http.ResponseWriter, r *http.Request) {
	postID, userID, ok := engagementRequest(w, r)
	if !ok {
		return
	}

	saved, err := toggleSave(postID, userID)
	if err == errPostNotFound {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[Posts] Save toggle failed: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"saved": saved})
}

func toggleRepostHandler(w http.ResponseWriter, r *http.Request) {
	postID, userID, ok := engagementRequest(w, r)
	if !ok {
		return
	}

	reposted, err := toggleRepost(postID, userID)
	if err == errPostNotFound {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[Posts] Repost toggle failed: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"reposted": reposted})
}

func createCommentHandler(w http.ResponseWriter, r *http.Request) {
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
		PostID  int    `json:"post_id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PostID == 0 || req.Content == "" {
		http.Error(w, "Post ID and content are required", http.StatusBadRequest)
		return
	}

	comment, err := addComment(req.PostID, userID, req.Content)
	if err == errPostNotFound {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "Failed to create comment", http.StatusInternalServerError)
		return
	}

	log.Println("Comment created successfully for Post ID:", req.PostID, "by User ID:", userID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func getCommentsByPostHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	postID, err := strconv.Atoi(r.URL.Query().Get("post_id"))
	if err != nil {
		http.Error(w, "Post ID is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loadComments(postID))
}
