// Command camera-ready runs the camera-ready transition job once: it deletes
// accept decisions whose conference submission deadline has passed, flips
// those conferences into the camera-ready phase, and notifies the assigned
// chair-reviewers.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"conflow/config"
	"conflow/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	job := services.NewCameraReadyJobService(nil, nil)
	summary, err := job.Run(context.Background())
	if err != nil {
		log.Fatalf("camera-ready job failed: %v", err)
	}

	fmt.Printf("Decisions processed: %d across %d conferences\n",
		summary.DecisionsProcessed, summary.ConferencesTransitioned)
	fmt.Printf("Notifications attempted: %d, failed: %d\n",
		summary.NotificationsAttempted, summary.NotificationsFailed)

	for _, f := range summary.Failures {
		fmt.Printf("  notification failed for decision %d: %v\n", f.DecisionID, f.Err)
	}

	if summary.NotificationsFailed > 0 {
		os.Exit(2)
	}
}
