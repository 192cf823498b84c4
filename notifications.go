package main

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	conn *websocket.Conn
	id   int
}

var (
	clients    = make(map[int]*Client)
	clientsMux sync.Mutex
)

// Signal is the envelope for every frame the hub pushes to a client. The four
// payload kinds mirror what the views depend on: user-updated carries the full
// user, reward-toast the literal deltas, quest-completed the quest definition,
// open-profile the target user id.
type Signal struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type RewardToast struct {
	Credits int    `json:"credits"`
	XP      int    `json:"xp"`
	Title   string `json:"title,omitempty"`
}

func handleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	var authData struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&authData); err != nil {
		log.Println("Failed to read authentication data:", err)
		conn.WriteJSON(map[string]string{"error": "Invalid token data"})
		return
	}

	userID, err := ExtractUserIDFromToken(authData.Token)
	if err != nil {
		log.Println("Invalid token:", err)
		conn.WriteJSON(map[string]string{"error": "Unauthorized"})
		return
	}

	clientsMux.Lock()
	clients[userID] = &Client{conn: conn, id: userID}
	clientsMux.Unlock()

	log.Printf("[Hub] User %d connected", userID)

	defer func() {
		clientsMux.Lock()
		delete(clients, userID)
		clientsMux.Unlock()
		log.Printf("[Hub] User %d disconnected", userID)
	}()

	conn.WriteJSON(map[string]interface{}{"status": "connected", "user_id": userID})

	for {
		var frame struct {
			Type       string `json:"type"`
			ReceiverID int    `json:"receiver_id"`
			UserID     int    `json:"user_id"`
			Content    string `json:"content"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			log.Println("Read error:", err)
			break
		}

		switch frame.Type {
		case "open-profile":
			// Cross-view navigation: echoed back so every open view of the
			// same user switches to the target profile.
			sendSignal(userID, Signal{Type: "open-profile", Payload: map[string]int{"user_id": frame.UserID}})
		default: // direct message
			if frame.ReceiverID == 0 || frame.Content == "" {
				continue
			}
			if _, err := sendMessage(userID, frame.ReceiverID, frame.Content); err != nil {
				log.Printf("[Hub] Message from %d failed: %v", userID, err)
			}
		}
	}
}

// sendSignal delivers one frame to a user's live connection, if any. Offline
// users simply miss transient signals; nothing is queued.
func sendSignal(userID int, sig Signal) {
	clientsMux.Lock()
	client, exists := clients[userID]
	clientsMux.Unlock()

	if !exists {
		return
	}
	if err := client.conn.WriteJSON(sig); err != nil {
		log.Printf("[Hub] Sending %s to user %d failed: %v", sig.Type, userID, err)
	}
}

func notifyUserUpdated(user *User) {
	if user == nil {
		return
	}
	sendSignal(user.ID, Signal{Type: "user-updated", Payload: user})
}

func notifyRewardToast(userID, credits, xp int, title string) {
	sendSignal(userID, Signal{Type: "reward-toast", Payload: RewardToast{Credits: credits, XP: xp, Title: title}})
}

func notifyQuestCompleted(userID int, quest Quest) {
	sendSignal(userID, Signal{Type: "quest-completed", Payload: quest})
}
