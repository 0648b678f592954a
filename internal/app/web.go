// Copyright (c) 2026 Aerolens Robotics
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aerolens/tagtracker/internal/config"
	"github.com/aerolens/tagtracker/internal/tags"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// viewerHandler upgrades the connection and pushes pose snapshots plus
// the latest annotated frame to the viewer until it disconnects.
func viewerHandler(snapshot func() []tags.TagPose, frame func() ([]byte, uint64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		session := uuid.NewString()
		log.Printf("web: viewer %s connected from %s", session, r.RemoteAddr)

		// Drain incoming messages so close frames and pings are handled
		// as they arrive instead of on the next failed write.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		go func() {
			defer conn.Close()
			var sentVer uint64
			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-done:
					log.Printf("web: viewer %s disconnected", session)
					return
				case <-ticker.C:
				}

				if err := conn.WriteJSON(snapshot()); err != nil {
					log.Printf("web: viewer %s disconnected: %v", session, err)
					return
				}

				jpg, ver := frame()
				if ver != sentVer && jpg != nil {
					if err := conn.WriteMessage(websocket.BinaryMessage, jpg); err != nil {
						log.Printf("web: viewer %s disconnected: %v", session, err)
						return
					}
					sentVer = ver
				}
			}
		}()
	}
}

// RunWeb serves the live viewer: latest poses over JSON and websocket,
// plus the annotated frame stream when the tracker publishes one.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu        sync.RWMutex
		lastPoses = map[int]tags.TagPose{}
		lastFrame []byte
		frameVer  uint64
	)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to tag poses, keep the latest per tag ID. The
	// multi-level wildcard matches the aggregate topic and the per-tag
	// topics below it; the handler keys on the payload's tag ID either
	// way, so receiving a pose twice is harmless.
	token := client.Subscribe(cfg.TopicTagPose+"/#", 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p tags.TagPose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastPoses[p.ID] = p
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", cfg.TopicTagPose)

	// 3) Annotated frames, if the tracker publishes them
	if cfg.TopicTagFrame != "" {
		frameToken := client.Subscribe(cfg.TopicTagFrame, 0, func(_ mqtt.Client, msg mqtt.Message) {
			mu.Lock()
			lastFrame = msg.Payload()
			frameVer++
			mu.Unlock()
		})
		frameToken.Wait()
		if frameToken.Error() != nil {
			return frameToken.Error()
		}
		log.Printf("subscribed to MQTT topic %s", cfg.TopicTagFrame)
	}

	snapshot := func() []tags.TagPose {
		mu.RLock()
		defer mu.RUnlock()
		poses := make([]tags.TagPose, 0, len(lastPoses))
		for _, p := range lastPoses {
			poses = append(poses, p)
		}
		sort.Slice(poses, func(i, j int) bool { return poses[i].ID < poses[j].ID })
		return poses
	}

	// 4) JSON API endpoint: latest pose per tag
	http.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		poses := snapshot()
		if len(poses) == 0 {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(poses); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	// 5) Websocket push for live viewers
	http.HandleFunc("/ws", viewerHandler(snapshot, func() ([]byte, uint64) {
		mu.RLock()
		defer mu.RUnlock()
		return lastFrame, frameVer
	}))

	// 6) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
