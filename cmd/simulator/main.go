package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Vehicle is the creation payload for the vehicle registry.
type Vehicle struct {
	CompanyID    string `json:"company_id"`
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
	Model        string `json:"model"`
	Status       string `json:"status"`
}

// Telemetry is the ingestion payload. The server assigns the timestamp.
type Telemetry struct {
	VehicleID         string   `json:"vehicle_id"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Speed             *float64 `json:"speed,omitempty"`
	FuelLevel         *float64 `json:"fuel_level,omitempty"`
	EngineTemperature *float64 `json:"engine_temperature,omitempty"`
	EngineRPM         *int     `json:"engine_rpm,omitempty"`
	BatteryVoltage    *float64 `json:"battery_voltage,omitempty"`
	ErrorCode         string   `json:"error_code,omitempty"`
}

// Cities the simulated fleet roams around.
var cities = []Location{
	{Lat: 55.7558, Lng: 37.6173},  // Moscow
	{Lat: 59.9311, Lng: 30.3609},  // Saint Petersburg
	{Lat: 51.5074, Lng: -0.1278},  // London
	{Lat: 52.5200, Lng: 13.4050},  // Berlin
	{Lat: 48.8566, Lng: 2.3522},   // Paris
	{Lat: 41.0082, Lng: 28.9784},  // Istanbul
	{Lat: 40.4168, Lng: -3.7038},  // Madrid
	{Lat: 40.7128, Lng: -74.0060}, // New York
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rand.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lng: base.Lng + dLng}
}

func randomLocation() Location {
	base := cities[rand.Intn(len(cities))]
	return jitterLocation(base, 500)
}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiURL, username, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := authorizedPost(apiURL+"/auth/login", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return result.Token, nil
}

func createVehicle(apiURL, companyID string, index int) (string, error) {
	models := []string{"Gazelle Next", "Lada Largus", "Ford Transit", "Mercedes Sprinter", "KamAZ 5490"}
	model := models[rand.Intn(len(models))]

	vehicle := Vehicle{
		CompanyID:    companyID,
		Name:         fmt.Sprintf("Sim Vehicle %d", index+1),
		LicensePlate: fmt.Sprintf("SIM%04d", rand.Intn(10000)),
		Model:        model,
		Status:       "ACTIVE",
	}

	data, err := json.Marshal(vehicle)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vehicle: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/vehicles", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to create vehicle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("vehicle creation failed with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	vehicleID, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid vehicle ID in response")
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"model":      model,
		"plate":      vehicle.LicensePlate,
	}).Info("Created vehicle")

	return vehicleID, nil
}

// VehicleState carries the evolving condition of one simulated vehicle.
type VehicleState struct {
	VehicleID  string
	Position   Location
	SpeedKmh   float64
	FuelPct    float64
	EngineTemp float64
	Voltage    float64
}

func telemetryFromState(s *VehicleState) Telemetry {
	speed := s.SpeedKmh
	fuel := s.FuelPct
	temp := s.EngineTemp
	voltage := s.Voltage
	rpm := int(800 + s.SpeedKmh*35)

	t := Telemetry{
		VehicleID:         s.VehicleID,
		Lat:               s.Position.Lat,
		Lng:               s.Position.Lng,
		Speed:             &speed,
		FuelLevel:         &fuel,
		EngineTemperature: &temp,
		EngineRPM:         &rpm,
		BatteryVoltage:    &voltage,
	}
	// Rare fault injection so the error counters have something to count.
	if rand.Float64() < 0.02 {
		codes := []string{"P0300", "P0420", "P0171", "P0455"}
		t.ErrorCode = codes[rand.Intn(len(codes))]
	}
	return t
}

func sendTelemetry(apiURL string, tele Telemetry) {
	data, err := json.Marshal(tele)
	if err != nil {
		log.WithError(err).Error("Failed to marshal telemetry")
		return
	}
	resp, err := authorizedPost(apiURL+"/telemetry", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to send telemetry")
		return
	}
	defer resp.Body.Close()
	log.WithFields(log.Fields{"vehicle_id": tele.VehicleID, "status": resp.Status}).Info("Sent telemetry")
}

func simulateVehicle(apiURL string, s *VehicleState, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		s.SpeedKmh += (rand.Float64()*2 - 1) * 5
		if s.SpeedKmh < 0 {
			s.SpeedKmh = 0
		}
		if s.SpeedKmh > 110 {
			s.SpeedKmh = 110
		}

		s.Position = jitterLocation(s.Position, s.SpeedKmh*interval.Seconds()/3.6)

		km := s.SpeedKmh * (interval.Seconds() / 3600.0)
		s.FuelPct -= km * 0.4
		if s.FuelPct < 5 {
			s.FuelPct = 100
		}

		s.EngineTemp = 85 + (rand.Float64()*2-1)*5
		s.Voltage = 13.8 + (rand.Float64()*2-1)*0.4

		sendTelemetry(apiURL, telemetryFromState(s))
	}
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	authToken = os.Getenv("SIM_AUTH_TOKEN")
	if authToken == "" {
		username := os.Getenv("SIM_USERNAME")
		password := os.Getenv("SIM_PASSWORD")
		if username != "" {
			token, err := login(apiURL, username, password)
			if err != nil {
				log.WithError(err).Fatal("Failed to log in")
			}
			authToken = token
		}
	}

	companyID := os.Getenv("SIM_COMPANY_ID")
	if companyID == "" {
		log.Fatal("SIM_COMPANY_ID is required")
	}

	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	states := make([]*VehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		vehicleID, err := createVehicle(apiURL, companyID, i)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		states = append(states, &VehicleState{
			VehicleID:  vehicleID,
			Position:   randomLocation(),
			SpeedKmh:   30 + rand.Float64()*30,
			FuelPct:    50 + rand.Float64()*50,
			EngineTemp: 85,
			Voltage:    13.8,
		})
	}

	log.WithField("created_vehicles", len(states)).Info("Vehicle creation completed")
	if len(states) == 0 {
		log.Error("No vehicles created. Check credentials and API reachability. Exiting.")
		return
	}

	for _, s := range states {
		go simulateVehicle(apiURL, s, interval)
	}

	log.Info("Telemetry simulation started")
	select {}
}
