package main

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/aerolens/tagtracker/internal/pose"
	"github.com/aerolens/tagtracker/internal/tags"
)

const (
	width  = 640
	height = 480
)

func main() {
	log.Println("starting tagtracker MQTT producer (mock)")

	// 1) Connect to a local MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker("tcp://localhost:1883").
		SetClientID("tagtracker-producer-mock")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("MQTT connect error: %v", token.Error())
	}
	defer client.Disconnect(250)

	detector := tags.NewMockDetector(7)
	estimator := tags.NewMockPoseEstimator()
	intr := tags.DefaultIntrinsics(width, height)
	gray := make([]byte, width*height)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var seq uint32
	for t := range ticker.C {
		dets, err := detector.Detect(gray, width, height)
		if err != nil {
			log.Printf("error from mock detector: %v", err)
			continue
		}
		seq++

		for _, d := range dets {
			translation, rotation, err := estimator.EstimatePose(d, intr, 0.166)
			if err != nil {
				log.Printf("error from mock estimator: %v", err)
				continue
			}

			tp := tags.NewTagPose(d, translation, pose.RotationToEuler(pose.FixCameraRotation(rotation)))
			tp.Seq = seq
			tp.Time = t.Format(time.RFC3339)

			payload, err := json.Marshal(tp)
			if err != nil {
				log.Printf("json marshal error: %v", err)
				continue
			}

			token := client.Publish("tags/pose", 0, true, payload)
			token.Wait()

			log.Printf("%s published tag pose: %+v", t.Format(time.RFC3339), tp)
		}
	}
}
