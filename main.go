package main

import (
	"log"
	"os"

	"Vistoria/Checklist"
	"Vistoria/CronJobs"
	"Vistoria/FiberConfig"
	"Vistoria/Models"
)

func main() {
	Models.Connect()

	draftDir := os.Getenv("DRAFT_DIR")
	if draftDir == "" {
		draftDir = "drafts"
	}
	drafts, err := Checklist.OpenDraftStore(draftDir)
	if err != nil {
		log.Fatalf("Failed to open draft store: %v", err)
	}
	defer drafts.Close()

	sessions := Checklist.NewManager(Models.DB, drafts)

	scheduler := CronJobs.NewScheduler(Models.DB, drafts)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start scheduler: %v", err)
	}

	FiberConfig.FiberConfig(sessions)
}
