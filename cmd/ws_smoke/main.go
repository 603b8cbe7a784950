package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Smoke test against a running server: guest login, one purchase over
// REST, then the push channel.
func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	flag.Parse()

	base := "http://" + *addr + "/api/v1"

	var login struct {
		Token    string `json:"token"`
		PlayerID string `json:"player_id"`
	}
	if err := call(http.MethodPost, base+"/auth/guest", "", nil, &login); err != nil {
		log.Fatalf("guest login: %v", err)
	}
	log.Printf("player=%s", login.PlayerID)

	if err := call(http.MethodPost, base+"/workers", login.Token, map[string]string{"type_id": "technician"}, nil); err != nil {
		log.Fatalf("hire: %v", err)
	}
	var pc struct {
		ID string `json:"id"`
	}
	if err := call(http.MethodPost, base+"/computers", login.Token, map[string]string{"type_id": "budget-rig"}, &pc); err != nil {
		log.Fatalf("buy: %v", err)
	}
	log.Printf("bought computer=%s", pc.ID)

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://%s/ws?token=%s", *addr, login.Token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() string {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		t, _ := obj["type"].(string)
		log.Printf("got %s: %.200s", t, msg)
		return t
	}

	for read() != "frame" {
	}

	time.Sleep(2 * time.Second)
	if err := conn.WriteJSON(map[string]any{"type": "collect", "payload": map[string]string{"computer_id": pc.ID}}); err != nil {
		log.Fatalf("write: %v", err)
	}
	for read() != "collected" {
	}

	log.Println("smoke test finished")
}

func call(method, url, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", method, url, res.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
