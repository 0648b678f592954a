// Copyright (c) 2026 Aerolens Robotics
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

	"github.com/aerolens/tagtracker/internal/app"
	"github.com/aerolens/tagtracker/internal/config"
)

func main() {
	configPath := flag.String("config", "./tagtracker_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting tagtracker console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
