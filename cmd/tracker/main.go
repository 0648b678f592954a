// Copyright (c) 2026 Aerolens Robotics
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

	"github.com/aerolens/tagtracker/internal/app"
	"github.com/aerolens/tagtracker/internal/config"
	"github.com/aerolens/tagtracker/internal/tags"
)

func main() {
	configPath := flag.String("config", "./tagtracker_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting tagtracker detection producer (frames → MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg := config.Get()
	family := tags.DefaultFamily
	if cfg.TagFamily != "" {
		f, err := tags.ParseFamily(cfg.TagFamily)
		if err != nil {
			log.Fatalf("invalid tag family: %v", err)
		}
		family = f
	}
	log.Printf("tag family %s, tag size %.3fm", family, cfg.TagSize)

	// The real detector library is wired in on rigs that ship it; the
	// mocks keep the full pipeline runnable everywhere else.
	detector := tags.NewMockDetector(7)
	estimator := tags.NewMockPoseEstimator()

	if err := app.RunTracker(detector, estimator); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
