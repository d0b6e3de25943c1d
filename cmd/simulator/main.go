package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/geo"
	"github.com/ukydev/urbanhive/internal/models"
)

// City is a seed point that neighborhoods are scattered around.
type City struct {
	Name     string
	Location models.Location
}

var cities = []City{
	{"London", models.Location{Latitude: 51.5074, Longitude: -0.1278}},
	{"New York", models.Location{Latitude: 40.7128, Longitude: -74.0060}},
	{"Madrid", models.Location{Latitude: 40.4168, Longitude: -3.7038}},
	{"Nicosia", models.Location{Latitude: 35.1856, Longitude: 33.3823}},
	{"Bogota", models.Location{Latitude: 4.7110, Longitude: -74.0721}},
	{"Paris", models.Location{Latitude: 48.8566, Longitude: 2.3522}},
	{"Istanbul", models.Location{Latitude: 41.0082, Longitude: 28.9784}},
	{"Tel Aviv", models.Location{Latitude: 32.0853, Longitude: 34.7818}},
	{"San Francisco", models.Location{Latitude: 37.7749, Longitude: -122.4194}},
	{"Berlin", models.Location{Latitude: 52.5200, Longitude: 13.4050}},
	{"Tokyo", models.Location{Latitude: 35.6762, Longitude: 139.6503}},
	{"Sydney", models.Location{Latitude: -33.8688, Longitude: 151.2093}},
}

func jitterLocation(rng *rand.Rand, base models.Location, meters float64) models.Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Latitude*math.Pi/180)
	dLat := (rng.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rng.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return models.Location{Latitude: base.Latitude + dLat, Longitude: base.Longitude + dLon}
}

// seeder drives the HTTP API to fill it with demo data.
type seeder struct {
	apiURL string
	client *http.Client
	rng    *rand.Rand
}

func newSeeder(apiURL string, rng *rand.Rand) *seeder {
	return &seeder{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		rng:    rng,
	}
}

// apiError is returned when the API answers with an unexpected status.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func (s *seeder) do(method, path string, body interface{}, wantStatus int, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, s.apiURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &apiError{Status: resp.StatusCode, Message: e.Error}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (s *seeder) createUser(city City, index int) (models.User, error) {
	id := uuid.NewString()
	user := models.User{
		ID:         id,
		Name:       fmt.Sprintf("%s Resident %d", city.Name, index),
		Email:      fmt.Sprintf("%s@urbanhive.test", id[:8]),
		Location:   jitterLocation(s.rng, city.Location, 1500),
		AreaRadius: 1 + float64(s.rng.Intn(5)),
	}
	if err := s.do(http.MethodPost, "/user/", user, http.StatusCreated, nil); err != nil {
		return models.User{}, err
	}
	log.WithFields(log.Fields{"user_id": user.ID, "city": city.Name}).Info("Created user")
	return user, nil
}

func (s *seeder) createCommunity(manager models.User, area string) (string, error) {
	loc := manager.Location
	req := models.AddCommunityRequest{ManagerID: manager.ID, Area: area, Location: &loc}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.do(http.MethodPost, "/communities/add_community", req, http.StatusCreated, &resp); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"community_id": resp.ID, "area": area}).Info("Created community")
	return resp.ID, nil
}

func (s *seeder) nearbyCommunities(center models.Location, radiusKm float64) ([]models.Community, error) {
	req := models.RadiusSearchRequest{Radius: &radiusKm, Location: &center}
	var resp struct {
		Local []models.Community `json:"local_communities"`
	}
	if err := s.do(http.MethodPost, "/communities/get_communities_by_radius_and_location", req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Local, nil
}

func (s *seeder) scheduleWatch(initiator models.User, area, date string, positions int) (string, error) {
	req := models.AddNightWatchRequest{
		InitiatorID:     initiator.ID,
		CommunityArea:   area,
		WatchDate:       date,
		WatchRadius:     0.5,
		PositionsAmount: positions,
	}
	var resp struct {
		WatchID string `json:"watch_id"`
	}
	if err := s.do(http.MethodPost, "/night_watch/add_night_watch", req, http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.WatchID, nil
}

func (s *seeder) joinWatch(watchID string, user models.User) error {
	req := models.JoinWatchRequest{CandidateID: user.ID, NightWatchID: watchID}
	return s.do(http.MethodPost, "/night_watch/join_watch", req, http.StatusOK, nil)
}

func (s *seeder) positions(watchID string) (models.PatrolPlan, error) {
	var plan models.PatrolPlan
	err := s.do(http.MethodGet, "/night_watch/positions?watch_id="+url.QueryEscape(watchID), nil, http.StatusOK, &plan)
	return plan, err
}

// summary counts what a seeding run created.
type summary struct {
	Users       int
	Communities int
	Watches     int
	Assignments int
}

// seedCity creates residents around a city, a community managed by the first
// resident and a night watch the others volunteer for.
func (s *seeder) seedCity(city City, users int, radiusKm float64, date string) (summary, error) {
	var sum summary
	residents := make([]models.User, 0, users)
	for i := 0; i < users; i++ {
		u, err := s.createUser(city, i+1)
		if err != nil {
			log.WithError(err).WithField("city", city.Name).Error("Failed to create user")
			continue
		}
		residents = append(residents, u)
	}
	sum.Users = len(residents)
	if len(residents) == 0 {
		return sum, fmt.Errorf("no residents created for %s", city.Name)
	}

	manager := residents[0]
	area := fmt.Sprintf("%s %s", city.Name, uuid.NewString()[:4])
	if _, err := s.createCommunity(manager, area); err != nil {
		return sum, fmt.Errorf("create community %q: %w", area, err)
	}
	sum.Communities = 1

	nearby, err := s.nearbyCommunities(manager.Location, radiusKm)
	if err != nil {
		return sum, err
	}
	for _, c := range nearby {
		log.WithFields(log.Fields{
			"from":        manager.ID,
			"area":        c.Area,
			"distance_km": geo.Distance(manager.Location.Point(), c.Point()),
		}).Info("Nearby community")
	}

	watchID, err := s.scheduleWatch(manager, area, date, len(residents)+s.rng.Intn(2))
	if err != nil {
		return sum, fmt.Errorf("schedule night watch: %w", err)
	}
	sum.Watches = 1

	for _, u := range residents {
		if err := s.joinWatch(watchID, u); err != nil {
			log.WithError(err).WithField("user_id", u.ID).Warn("Failed to join night watch")
		}
	}

	plan, err := s.positions(watchID)
	if err != nil {
		return sum, fmt.Errorf("plan night watch: %w", err)
	}
	sum.Assignments = len(plan.Assignments)
	log.WithFields(log.Fields{
		"watch_id":     watchID,
		"area":         area,
		"assignments":  len(plan.Assignments),
		"understaffed": plan.Understaffed,
	}).Info("Planned night watch")
	return sum, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5000"
	}
	usersPerCity := envInt("SEED_USERS", 4)
	radiusKm := envFloat("SEED_RADIUS_KM", 5)
	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	log.WithFields(log.Fields{
		"api_url":        apiURL,
		"users_per_city": usersPerCity,
		"radius_km":      radiusKm,
	}).Info("Starting UrbanHive seeding")

	s := newSeeder(apiURL, rand.New(rand.NewSource(time.Now().UnixNano())))
	var total summary
	for _, city := range cities {
		sum, err := s.seedCity(city, usersPerCity, radiusKm, date)
		if err != nil {
			log.WithError(err).WithField("city", city.Name).Error("Seeding city failed")
		}
		total.Users += sum.Users
		total.Communities += sum.Communities
		total.Watches += sum.Watches
		total.Assignments += sum.Assignments
	}

	log.WithFields(log.Fields{
		"users":       total.Users,
		"communities": total.Communities,
		"watches":     total.Watches,
		"assignments": total.Assignments,
	}).Info("Seeding completed")
	if total.Users == 0 {
		log.Error("Nothing was created. Ensure the API is reachable.")
		os.Exit(1)
	}
}
