package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestMediaUpdatedReachesUserConnections(t *testing.T) {
	m := NewManager(nil)
	defer m.Stop()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(r.URL.Query().Get("user"), conn)
		m.RegisterClient(client)
		defer m.UnregisterClient(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=u1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for m.ClientCount("u1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	m.MediaUpdated("u2", "b9", ActionUpload, nil)
	m.MediaUpdated("u1", "b1", ActionCreateFolder, map[string]interface{}{"folder_path": "menu"})

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Type != MediaUpdated || n.BusinessID != "b1" || n.Action != ActionCreateFolder {
		t.Errorf("notification = %+v", n)
	}
	if n.Data["folder_path"] != "menu" {
		t.Errorf("data = %v", n.Data)
	}
}

func TestSendNotificationWithoutClients(t *testing.T) {
	m := NewManager(nil)
	defer m.Stop()
	if err := m.SendNotification("nobody", &Notification{Type: MediaUpdated}); err != nil {
		t.Errorf("err = %v", err)
	}
}
