package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/aerolens/tagtracker/internal/config"
	"github.com/aerolens/tagtracker/internal/grabber"
	"github.com/aerolens/tagtracker/internal/overlay"
	"github.com/aerolens/tagtracker/internal/pixel"
	"github.com/aerolens/tagtracker/internal/pose"
	"github.com/aerolens/tagtracker/internal/store"
	"github.com/aerolens/tagtracker/internal/tags"
)

// poseTopic returns the per-tag topic below the aggregate pose topic.
func poseTopic(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}

// RunTracker runs the capture → convert → detect → pose → publish loop
// until the frame source is exhausted or the process is signalled.
// The detector and estimator are passed in by the caller; in
// deployments without the real detector library the mocks keep the
// pipeline runnable end to end.
func RunTracker(detector tags.Detector, estimator tags.PoseEstimator) error {
	log.Println("starting tagtracker detection producer")

	cfg := config.Get()

	intr := tags.DefaultIntrinsics(cfg.FrameWidth, cfg.FrameHeight)
	if cfg.CameraFx != 0 {
		intr.Fx = cfg.CameraFx
	}
	if cfg.CameraFy != 0 {
		intr.Fy = cfg.CameraFy
	}
	if cfg.CameraPx != 0 {
		intr.Px = cfg.CameraPx
	}
	if cfg.CameraPy != 0 {
		intr.Py = cfg.CameraPy
	}

	// --- Frame source ---
	var src grabber.Source
	if cfg.FrameSource == "synthetic" {
		log.Println("using synthetic frame source")
		src = grabber.NewSyntheticSource(cfg.FrameWidth, cfg.FrameHeight)
	} else {
		fileSrc, err := grabber.NewFileSource(cfg.FrameSource, cfg.FrameWidth, cfg.FrameHeight, cfg.FrameLoop)
		if err != nil {
			return err
		}
		defer fileSrc.Close()
		log.Printf("replaying frames from %s (%dx%d, loop=%v)",
			cfg.FrameSource, cfg.FrameWidth, cfg.FrameHeight, cfg.FrameLoop)
		src = fileSrc
	}

	// --- Optional outputs ---
	var db *store.Store
	if cfg.StorePath != "" {
		var err error
		db, err = store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Printf("logging detections to %s", cfg.StorePath)
	}

	var serialW *SerialWriter
	if cfg.SerialPort != "" {
		var err error
		serialW, err = NewSerialWriter(cfg.SerialPort, uint(cfg.SerialBaudRate))
		if err != nil {
			return err
		}
		defer serialW.Close()
		log.Printf("sending tag IDs to serial port %s at %d baud", cfg.SerialPort, cfg.SerialBaudRate)
	}

	var indicator *Indicator
	if cfg.IndicatorPin != "" {
		var err error
		indicator, err = NewIndicator(cfg.IndicatorPin)
		if err != nil {
			return err
		}
		log.Printf("indicator LED on GPIO %s", cfg.IndicatorPin)
	}

	// --- Connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDTracker)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting detection loop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.FrameInterval) * time.Millisecond)
	defer ticker.Stop()

	frameCount := 0
	lastReport := time.Now()

	for {
		select {
		case <-sigCh:
			log.Println("tracker: shutting down")
			return nil
		case <-ticker.C:
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			log.Println("tracker: frame source exhausted")
			return nil
		}
		if err != nil {
			log.Printf("frame read error: %v", err)
			continue
		}
		if err := grabber.Validate(frame); err != nil {
			log.Printf("bad frame %d: %v", frame.Seq, err)
			continue
		}

		bgr, err := pixel.YUV420ToBGR24(frame.Data, frame.Width, frame.Height)
		if err != nil {
			log.Printf("color conversion error (frame %d): %v", frame.Seq, err)
			continue
		}
		gray, err := pixel.BGR24ToGray(bgr, frame.Width, frame.Height)
		if err != nil {
			log.Printf("grayscale conversion error (frame %d): %v", frame.Seq, err)
			continue
		}

		dets, err := detector.Detect(gray, frame.Width, frame.Height)
		if err != nil {
			log.Printf("detector error (frame %d): %v", frame.Seq, err)
			continue
		}

		fmt.Printf("%d tags detected:\n", len(dets))

		for _, d := range dets {
			translation, rotation, err := estimator.EstimatePose(d, intr, cfg.TagSize)
			if err != nil {
				log.Printf("pose estimation error (tag %d): %v", d.ID, err)
				continue
			}

			euler := pose.RotationToEuler(pose.FixCameraRotation(rotation))
			tp := tags.NewTagPose(d, translation, euler)
			tp.Seq = frame.Seq
			tp.Time = frame.Time.Format(time.RFC3339Nano)

			fmt.Printf("  Id: %d (Hamming: %d)  distance=%.3fm, x=%.3f, y=%.3f, z=%.3f, yaw=%.3f, pitch=%.3f, roll=%.3f\n",
				tp.ID, tp.Hamming, tp.Distance, tp.X, tp.Y, tp.Z, tp.Yaw, tp.Pitch, tp.Roll)

			payload, err := json.Marshal(tp)
			if err != nil {
				log.Printf("json marshal error (tag pose): %v", err)
				continue
			}
			if token := client.Publish(cfg.TopicTagPose, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (tag pose): %v", token.Error())
			}
			// Also retained per tag, so consumers interested in one tag
			// can subscribe to just its topic.
			if token := client.Publish(poseTopic(cfg.TopicTagPose, tp.ID), 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (tag %d pose): %v", tp.ID, token.Error())
			}

			if db != nil {
				if err := db.LogPose(tp); err != nil {
					log.Printf("detection log error: %v", err)
				}
			}
		}

		if serialW != nil && len(dets) > 0 {
			if err := serialW.WriteDetections(dets); err != nil {
				log.Printf("serial write error: %v", err)
			}
		}
		if indicator != nil {
			if err := indicator.Set(len(dets) > 0); err != nil {
				log.Printf("indicator error: %v", err)
			}
		}

		if cfg.OverlayEnabled && cfg.TopicTagFrame != "" {
			if err := overlay.DrawDetections(bgr, frame.Width, frame.Height, dets); err != nil {
				log.Printf("overlay error: %v", err)
			} else if jpg, err := overlay.EncodeJPEG(bgr, frame.Width, frame.Height, cfg.JPEGQuality); err != nil {
				log.Printf("jpeg encode error: %v", err)
			} else {
				client.Publish(cfg.TopicTagFrame, 0, true, jpg)
			}
		}

		frameCount++
		if frameCount%10 == 0 {
			now := time.Now()
			fmt.Printf("  %.2f fps\n", 10/now.Sub(lastReport).Seconds())
			lastReport = now
		}
	}
}
