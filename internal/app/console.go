package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/aerolens/tagtracker/internal/config"
	"github.com/aerolens/tagtracker/internal/tags"
)

// RunConsole subscribes to the tag pose topic and prints each
// detection as a single line.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	poseToken := client.Subscribe(cfg.TopicTagPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p tags.TagPose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: tag pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[TAG ] id=%3d ham=%d dist=%5.2fm x=%6.2f y=%6.2f z=%6.2f yaw=%6.2f pitch=%6.2f roll=%6.2f seq=%d\n",
			p.ID, p.Hamming, p.Distance, p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.Roll, p.Seq,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicTagPose)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
