// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/leadloop/outreach-backend/internal/controller"
	"github.com/leadloop/outreach-backend/internal/db"
	"github.com/leadloop/outreach-backend/internal/enrich"
	"github.com/leadloop/outreach-backend/internal/handler"
	"github.com/leadloop/outreach-backend/internal/repository"
	"github.com/leadloop/outreach-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	conn := db.Init()
	runner := &repository.SQLRunner{DB: conn}

	campaignRepo := &repository.CampaignRepository{}
	listRepo := &repository.TargetListRepository{}
	enrollRepo := &repository.EnrollmentRepository{}
	stateRepo := &repository.OutreachStateRepository{}

	// Queue transport. Without a broker URL the in-memory transport keeps
	// local runs working; enrichment is best effort either way.
	var transport enrich.Transport
	if url := os.Getenv("AMQP_URL"); url != "" {
		t, err := enrich.NewAMQPTransport(url)
		if err != nil {
			log.Fatal("Failed to connect to broker:", err)
		}
		transport = t
		log.Println("✅ Connected to message broker")
	} else {
		log.Println("⚠️ AMQP_URL not set, using in-memory transport")
		transport = enrich.NewInMemoryTransport()
	}

	dispatcher := enrich.NewDispatcher(transport, enrich.Config{
		EmailQueue:   os.Getenv("ENRICH_EMAIL_QUEUE"),
		ProfileQueue: os.Getenv("ENRICH_PROFILE_QUEUE"),
	})

	enrollmentService := &service.EnrollmentService{
		DB:           conn,
		Runner:       runner,
		CampaignRepo: campaignRepo,
		ListRepo:     listRepo,
		EnrollRepo:   enrollRepo,
		StateRepo:    stateRepo,
		Snapshot:     &service.SnapshotBuilder{Enrollments: enrollRepo},
		Dispatcher:   dispatcher,
	}

	outreachService := &service.OutreachService{
		Runner:    runner,
		StateRepo: stateRepo,
	}

	targetingController := &controller.TargetingController{
		EnrollmentService: enrollmentService,
	}
	outreachController := &controller.OutreachController{
		OutreachService: outreachService,
	}
	enrichmentController := &controller.EnrichmentController{
		Dispatcher: dispatcher,
	}
	enrollmentHandler := &handler.EnrollmentHandler{
		Service: enrollmentService,
	}

	r := chi.NewRouter()

	// Campaign targeting
	r.Post("/campaigns", targetingController.CreateCampaign)
	r.Put("/campaigns/{id}/targeting", targetingController.SetTargeting)
	r.Get("/campaigns/{id}/enrollment", enrollmentHandler.GetEnrollmentWithStats)

	// Outreach feedback
	r.Post("/contacts/{id}/events/{event}", outreachController.RecordEvent)
	r.Post("/contacts/{id}/pause", outreachController.Pause)
	r.Post("/contacts/{id}/unsubscribe", outreachController.Unsubscribe)
	r.Post("/contacts/{id}/advance", outreachController.AdvanceSequence)

	// Enrichment
	r.Post("/enrichment/dispatch", enrichmentController.Dispatch)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
