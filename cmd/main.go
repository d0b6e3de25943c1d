package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/config"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/events"
	"github.com/ukydev/urbanhive/internal/handlers"
	"github.com/ukydev/urbanhive/internal/logging"
	"github.com/ukydev/urbanhive/internal/metrics"
	"github.com/ukydev/urbanhive/internal/middleware"
)

// dependencies holds everything the router needs to serve requests.
type dependencies struct {
	users       db.UserCollection
	communities db.CommunityCollection
	watches     db.NightWatchCollection
	events      db.EventCollection
	posts       db.PostCollection
	database    handlers.Pinger
	publisher   events.Publisher
	metrics     *metrics.Collector
	log         *logrus.Logger
}

func newRouter(d dependencies) http.Handler {
	userHandler := handlers.NewUserHandler(d.users, d.log)
	communityHandler := handlers.NewCommunityHandler(d.communities, d.users, d.metrics, d.log)
	watchHandler := handlers.NewNightWatchHandler(d.watches, d.communities, d.users, d.publisher, d.metrics, d.log)
	eventHandler := handlers.NewEventHandler(d.events, d.communities, d.users, d.publisher, d.log)
	postHandler := handlers.NewPostHandler(d.posts, d.communities, d.users, d.publisher, d.log)

	mux := http.NewServeMux()

	mux.Handle("GET /health", handlers.NewHealthHandler(d.database, d.log))
	mux.Handle("GET /metrics", d.metrics.Handler())

	mux.HandleFunc("GET /users", userHandler.ListUsers)
	mux.HandleFunc("POST /user/", userHandler.AddUser)
	mux.HandleFunc("GET /user/{id}", userHandler.GetUser)
	mux.HandleFunc("PUT /user/{id}", userHandler.UpdateUser)
	mux.HandleFunc("DELETE /user/{id}", userHandler.DeleteUser)
	mux.HandleFunc("PUT /user/{id}/radius", userHandler.UpdateRadius)

	mux.HandleFunc("POST /communities/add_community", communityHandler.AddCommunity)
	mux.HandleFunc("POST /communities/get_communities_by_radius_and_location", communityHandler.NearbyCommunities)
	mux.HandleFunc("POST /communities/details_by_area", communityHandler.DetailsByArea)
	mux.HandleFunc("GET /communities/details_by_area", communityHandler.DetailsByArea)
	mux.HandleFunc("GET /communities/get_all", communityHandler.GetAll)

	mux.HandleFunc("POST /night_watch/add_night_watch", watchHandler.AddNightWatch)
	mux.HandleFunc("POST /night_watch/join_watch", watchHandler.JoinWatch)
	mux.HandleFunc("GET /night_watch/positions", watchHandler.Positions)
	mux.HandleFunc("POST /night_watch/close_night_watch", watchHandler.CloseNightWatch)
	mux.HandleFunc("GET /night_watch/by_community", watchHandler.ByCommunity)

	mux.HandleFunc("POST /events/add_event", eventHandler.AddEvent)
	mux.HandleFunc("GET /events/get_all_events", eventHandler.GetAllEvents)
	mux.HandleFunc("POST /events/delete_event", eventHandler.DeleteEvent)

	mux.HandleFunc("POST /posting/add_post", postHandler.AddPost)
	mux.HandleFunc("GET /posting/by_community", postHandler.ByCommunity)
	mux.HandleFunc("DELETE /posting/delete_post", postHandler.DeletePost)

	return middleware.Stack(mux, d.log, d.metrics)
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	store := db.NewStore(client, cfg.Mongo.Database)
	log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	if err := store.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsEnabled() {
		clientID := cfg.MQTT.ClientID + "-" + uuid.NewString()
		mqttPublisher, err := events.Dial(cfg.MQTT.Broker, clientID, cfg.MQTT.TopicPrefix, byte(cfg.MQTT.QOS), log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		defer mqttPublisher.Close()
		publisher = mqttPublisher
		log.WithFields(logrus.Fields{"broker": cfg.MQTT.Broker, "client_id": clientID}).Info("Publishing night watch events")
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		log.WithError(err).Fatal("Failed to register metrics")
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: newRouter(dependencies{
			users:       store.Users(),
			communities: store.Communities(),
			watches:     store.NightWatches(),
			events:      store.Events(),
			posts:       store.Posts(),
			database:    store,
			publisher:   publisher,
			metrics:     collector,
			log:         log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := store.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("MongoDB disconnect failed")
	}
}
