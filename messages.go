package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"
)

type Message struct {
	ID         int    `json:"id"`
	SenderID   int    `json:"sender_id"`
	ReceiverID int    `json:"receiver_id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// sendMessage stores a direct message, pays the sender +2/+5, advances the
// Chatterbox quest, and forwards the message to the receiver's live socket.
func sendMessage(senderID, receiverID int, content string) (*Message, error) {
	if content == "" || receiverID == 0 {
		return nil, errors.New("receiver and content are required")
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM users WHERE id = ?", receiverID).Scan(&exists); err != nil {
		return nil, errors.New("receiver not found")
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec("INSERT INTO messages (sender_id, receiver_id, content, created_at) VALUES (?, ?, ?, ?)",
		senderID, receiverID, content, createdAt)
	if err != nil {
		return nil, err
	}
	messageID64, _ := res.LastInsertId()

	message := &Message{
		ID:         int(messageID64),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  createdAt,
	}

	addReward(senderID, 2, 5)
	completeQuest(senderID, "q5")

	sendSignal(receiverID, Signal{Type: "message", Payload: message})

	return message, nil
}

func sendMessageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	senderID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ReceiverID int    `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	message, err := sendMessage(senderID, req.ReceiverID, req.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("[Messages] User %d -> user %d", senderID, req.ReceiverID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}

// getMessagesHandler returns the conversation between the caller and the
// user named by with=, oldest first.
func getMessagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := strconv.Atoi(r.URL.Query().Get("with"))
	if err != nil {
		http.Error(w, "Query parameter 'with' is required", http.StatusBadRequest)
		return
	}

	rows, err := db.Query(`
		SELECT id, sender_id, receiver_id, content, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY id ASC`, userID, otherID, otherID, userID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt); err == nil {
			messages = append(messages, m)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
