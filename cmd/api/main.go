package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arboriza/backend/internal/config"
	"arboriza/backend/internal/domain/care"
	"arboriza/backend/internal/domain/gamification"
	"arboriza/backend/internal/domain/mapview"
	"arboriza/backend/internal/domain/profile"
	"arboriza/backend/internal/domain/tree"
	"arboriza/backend/internal/firebase"
	"arboriza/backend/internal/handlers"
	apihttp "arboriza/backend/internal/http"
	"arboriza/backend/internal/plantnet"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// identifier binds the API key to the shared client so flow code never
// sees it.
type identifier struct {
	client *plantnet.Client
	apiKey string
}

func (i identifier) Identify(ctx context.Context, img plantnet.Image) (*plantnet.IdentifyResponse, error) {
	return i.client.Identify(ctx, i.apiKey, img)
}

// staticLocator pins the map to the configured neighborhood. The API has no
// device GPS; clients send real fixes with their requests.
type staticLocator struct {
	pos latlng.LatLng
}

func (l staticLocator) Locate(_ context.Context) (*latlng.LatLng, error) {
	pos := l.pos
	return &pos, nil
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase init failed: %v", err)
	}
	defer clients.Close()

	// Repositories
	profileRepo := profile.NewRepo(clients.Firestore)
	treeRepo := tree.NewRepo(clients.Firestore)

	// Services
	profileSvc := profile.NewService(profileRepo, clients.Auth)
	gamificationSvc := gamification.NewService(profileRepo)
	treeSvc := tree.NewService(treeRepo)

	uploads := handlers.NewUploads(cfg, clients, profileRepo)

	plantnetClient := &plantnet.Client{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: cfg.PlantNetBaseURL,
	}
	if cfg.PlantNetAPIKey == "" {
		log.Println("PLANTNET_API_KEY not set, identification disabled")
	}

	careSvc := care.NewService(
		treeRepo,
		profileRepo,
		gamificationSvc,
		identifier{client: plantnetClient, apiKey: cfg.PlantNetAPIKey},
		uploads,
	)

	// The marker layer follows the trees collection live.
	center := latlng.LatLng{Latitude: cfg.DefaultLatitude, Longitude: cfg.DefaultLongitude}
	presenter := mapview.NewPresenter(staticLocator{pos: center}, center)
	presenter.Init()
	presenter.Locate(ctx)
	cancelTrees := treeRepo.SubscribeTrees(ctx, presenter.Apply)
	defer cancelTrees()

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:             cfg,
		Logger:          logger,
		AuthClient:      clients.Auth,
		ProfileSvc:      profileSvc,
		GamificationSvc: gamificationSvc,
		TreeSvc:         treeSvc,
		CareSvc:         careSvc,
		Presenter:       presenter,
		IdentifyProxy:   &handlers.Identify{Client: plantnetClient, APIKey: cfg.PlantNetAPIKey},
		Uploads:         uploads,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("API listening on :%s (project=%s)", cfg.Port, cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("shutting down...")
	_ = srv.Shutdown(ctxShutdown)
}
