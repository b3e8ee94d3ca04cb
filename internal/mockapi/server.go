// Package mockapi serves canned responses for the six backend endpoints.
// It is used for local development and by tests.
package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/skypies/geo"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/models"
)

// Store holds the data served by the mock backend.
type Store struct {
	delays   map[int][]models.MonthlyDelayRecord
	failing  map[int]bool
	airlines []models.Airline
	airports []models.Airport
	nextID   atomic.Int64
	mu       sync.RWMutex
}

// NewStore returns a store seeded with sample airlines, airports and statistics.
func NewStore() *Store {
	return &Store{
		airlines: seedAirlines,
		airports: seedAirports,
		delays:   seedDelays(),
		failing:  make(map[int]bool),
	}
}

// SetDelays replaces the monthly statistics of an airline.
func (s *Store) SetDelays(airlineID int, records []models.MonthlyDelayRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[airlineID] = records
}

// SetFailing makes the statistics endpoint answer 500 for an airline.
func (s *Store) SetFailing(airlineID int, failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[airlineID] = failing
}

// Airlines returns the seeded airlines.
func (s *Store) Airlines() []models.Airline {
	return s.airlines
}

// Airports returns the seeded airports.
func (s *Store) Airports() []models.Airport {
	return s.airports
}

// NewRouter registers the backend routes.
func NewRouter(store *Store) *mux.Router {
	h := &handler{store: store}

	r := mux.NewRouter()
	r.HandleFunc("/health", health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/get-airline", h.getAirlines).Methods(http.MethodPost)
	api.HandleFunc("/get-airport", h.getAirports).Methods(http.MethodPost)
	api.HandleFunc("/dashboard/delays-by-month", h.delaysByMonth).Methods(http.MethodGet)
	api.HandleFunc("/predict", h.predict).Methods(http.MethodPost)
	api.HandleFunc("/predict-smart", h.predictSmart).Methods(http.MethodPost)
	api.HandleFunc("/travel-guide", h.travelGuide).Methods(http.MethodPost)

	return r
}

// NewServer wraps the router with panic recovery, CORS and access logging.
func NewServer(addr string, store *Store, accessLog io.Writer) *http.Server {
	var h http.Handler = NewRouter(store)
	h = handlers.RecoveryHandler()(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.LoggingHandler(accessLog, h)

	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type handler struct {
	store *Store
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handler) getAirlines(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Active string `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out := make([]models.Airline, 0, len(h.store.airlines))
	for _, a := range h.store.airlines {
		if body.Active == "true" && !a.Active {
			continue
		}
		out = append(out, a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getAirports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.airports)
}

func (h *handler) delaysByMonth(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("opUniqueCarrier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "opUniqueCarrier must be an integer")
		return
	}

	h.store.mu.RLock()
	failing := h.store.failing[id]
	records, ok := h.store.delays[id]
	h.store.mu.RUnlock()

	if failing {
		writeError(w, http.StatusInternalServerError, "statistics unavailable")
		return
	}
	if !ok {
		records = []models.MonthlyDelayRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dep, err := time.ParseInLocation(models.DepartureLayout, req.DepartureTime, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "departureTime must be YYYY-MM-DDTHH:MM")
		return
	}
	h.respondPrediction(w, models.NewSmartPredictionRequest(req.FlightNumber, req.Airline, req.Origin, req.Destination, dep))
}

func (h *handler) predictSmart(w http.ResponseWriter, r *http.Request) {
	var req models.SmartPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Month < 1 || req.Month > 12 || req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		writeError(w, http.StatusBadRequest, "month must be 1-12 and dayOfWeek 1-7")
		return
	}
	h.respondPrediction(w, req)
}

func (h *handler) respondPrediction(w http.ResponseWriter, req models.SmartPredictionRequest) {
	if req.Flight.FlightNumber == "" {
		writeError(w, http.StatusBadRequest, "flightNumber is required")
		return
	}

	airline, ok := h.airline(req.Flight.Airline)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown airline")
		return
	}
	origin, ok1 := h.airport(req.Flight.Origin)
	dest, ok2 := h.airport(req.Flight.Destination)
	if !ok1 || !ok2 {
		writeError(w, http.StatusNotFound, "unknown airport")
		return
	}

	id := fmt.Sprintf("pred-%d", h.store.nextID.Add(1))
	writeJSON(w, http.StatusOK, models.PredictionResponse{
		ID:               &id,
		FlightNumber:     req.Flight.FlightNumber,
		Airline:          airline.ShortName,
		Origin:           origin.IATA,
		Destination:      dest.IATA,
		DepartureTime:    req.Flight.DepartureTime,
		DelayProbability: DelayProbability(req),
	})
}

func (h *handler) travelGuide(w http.ResponseWriter, r *http.Request) {
	var req models.TravelGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lat, err1 := strconv.ParseFloat(req.Latitude, 64)
	lng, err2 := strconv.ParseFloat(req.Longitude, 64)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude must be numeric strings")
		return
	}
	if _, err := time.Parse(models.TravelDateLayout, req.TravelDate); err != nil {
		writeError(w, http.StatusBadRequest, "travelDate must be DD-MM")
		return
	}

	ap, ok := h.nearestAirport(geo.Latlong{Lat: lat, Long: lng})
	if !ok {
		writeError(w, http.StatusNotFound, "no airport near location")
		return
	}
	writeJSON(w, http.StatusOK, cityGuide(ap))
}

func (h *handler) airline(id int) (models.Airline, bool) {
	for _, a := range h.store.airlines {
		if a.ID == id {
			return a, true
		}
	}
	return models.Airline{}, false
}

func (h *handler) airport(id int) (models.Airport, bool) {
	for _, a := range h.store.airports {
		if a.ID == id {
			return a, true
		}
	}
	return models.Airport{}, false
}

// nearestAirportRadiusKM bounds how far a guide location may be from a known airport.
const nearestAirportRadiusKM = 150

func (h *handler) nearestAirport(pos geo.Latlong) (models.Airport, bool) {
	var best models.Airport
	bestDist := math.MaxFloat64
	for _, a := range h.store.airports {
		if d := pos.DistKM(a.Latlong()); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best, bestDist <= nearestAirportRadiusKM
}

// DelayProbability is the deterministic stand-in for the prediction model.
// Evening departures, weekends and peak months score higher.
func DelayProbability(req models.SmartPredictionRequest) float64 {
	hf := fnv.New32a()
	_, _ = hf.Write([]byte(req.Flight.FlightNumber))
	p := 0.10 + float64(hf.Sum32()%20)/100

	switch {
	case req.Hour >= 17 && req.Hour <= 21:
		p += 0.20
	case req.Hour >= 12:
		p += 0.10
	}
	if req.DayOfWeek >= 5 {
		p += 0.05
	}
	p += seasonalBump(req.Month) * 1.5
	p += 0.02 * float64(req.Flight.Airline%4)

	p = math.Min(math.Max(p, 0.02), 0.95)
	return math.Round(p*1000) / 1000
}
