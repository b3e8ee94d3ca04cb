package mockapi

import (
	"fmt"
	"math"

	"github.com/j-veylop/flight-delay-tui/internal/models"
)

var seedAirlines = []models.Airline{
	{ID: 1, ShortName: "AM", FullName: "Aeromexico", Active: true},
	{ID: 2, ShortName: "Y4", FullName: "Volaris", Active: true},
	{ID: 3, ShortName: "VB", FullName: "Viva Aerobus", Active: true},
	{ID: 4, ShortName: "4O", FullName: "Interjet", Active: false},
	{ID: 5, ShortName: "AA", FullName: "American Airlines", Active: true},
}

var seedAirports = []models.Airport{
	{ID: 1, IATA: "MEX", Name: "Benito Juarez Intl", City: "Ciudad de Mexico", State: "CDMX", Latitude: 19.4361, Longitude: -99.0719},
	{ID: 2, IATA: "CUN", Name: "Cancun Intl", City: "Cancun", State: "Quintana Roo", Latitude: 21.0365, Longitude: -86.8771},
	{ID: 3, IATA: "GDL", Name: "Miguel Hidalgo y Costilla Intl", City: "Guadalajara", State: "Jalisco", Latitude: 20.5218, Longitude: -103.3112},
	{ID: 4, IATA: "MTY", Name: "Mariano Escobedo Intl", City: "Monterrey", State: "Nuevo Leon", Latitude: 25.7785, Longitude: -100.1069},
	{ID: 5, IATA: "TIJ", Name: "Abelardo L. Rodriguez Intl", City: "Tijuana", State: "Baja California", Latitude: 32.5411, Longitude: -116.9700},
	{ID: 6, IATA: "DFW", Name: "Dallas/Fort Worth Intl", City: "Dallas", State: "Texas", Latitude: 32.8998, Longitude: -97.0403},
}

// seedDelays builds twelve months of 2024 totals for every airline except 5,
// which has no dashboard data.
func seedDelays() map[int][]models.MonthlyDelayRecord {
	out := make(map[int][]models.MonthlyDelayRecord)
	for _, a := range seedAirlines {
		if a.ID == 5 {
			out[a.ID] = []models.MonthlyDelayRecord{}
			continue
		}
		records := make([]models.MonthlyDelayRecord, 0, 12)
		for m := 1; m <= 12; m++ {
			flights := 900 + a.ID*150 + int(120*math.Sin(float64(m)/12*2*math.Pi))
			rate := 0.12 + 0.03*float64(a.ID) + seasonalBump(m)
			records = append(records, models.MonthlyDelayRecord{
				Period:       fmt.Sprintf("2024-%02d", m),
				TotalFlights: flights,
				TotalDelays:  int(float64(flights) * rate),
			})
		}
		out[a.ID] = records
	}
	return out
}

// seasonalBump models the summer and December peaks.
func seasonalBump(month int) float64 {
	switch month {
	case 7, 8, 12:
		return 0.08
	case 6, 1:
		return 0.04
	default:
		return 0
	}
}

func cityGuide(ap models.Airport) models.TravelGuide {
	g := models.TravelGuide{
		Destination: models.Destination{
			Airport: fmt.Sprintf("%s (%s)", ap.Name, ap.IATA),
			City:    ap.City,
			Country: "Mexico",
			CountryInfo: models.CountryInfo{
				Language: "Español",
				Currency: "MXN",
				TipRate:  "10-15%",
				ESimURL:  "https://esim.example.com/mx",
			},
			Technical: models.TechnicalInfo{Plugs: []string{"A", "B"}, Voltage: "127V", Frequency: "60Hz"},
			Emergency: models.EmergencyNumber{Single: "911", Police: "911", Ambulance: "065"},
		},
		Climate: models.ClimateAnalysis{
			Summary:   "Temporada templada con lluvias por la tarde",
			TempRange: "14°C - 27°C",
			Risks:     "Tormentas eléctricas aisladas",
			Suitcase: []models.SuitcaseItem{
				{Item: "Paraguas compacto", Priority: "Alta", SearchLink: "https://www.google.com/search?q=paraguas+compacto"},
				{Item: "Chaqueta ligera", Priority: "Media", SearchLink: "https://www.google.com/search?q=chaqueta+ligera"},
				{Item: "Protector solar", Priority: "Alta", SearchLink: "https://www.google.com/search?q=protector+solar"},
			},
		},
		Transport: []models.TransportOption{
			{Mode: "Taxi autorizado", CostUSD: 18, Minutes: 35, Schedule: "24 horas", PaymentMethod: "Efectivo o tarjeta en módulo"},
			{Mode: "Autobús", CostUSD: 5, Minutes: 55, Schedule: "06:00 - 23:00", PaymentMethod: "Efectivo"},
			{Mode: "App de transporte", CostUSD: 12, Minutes: 35, Schedule: "24 horas", PaymentMethod: "Tarjeta"},
		},
		Food: models.SeasonalFood{
			Dishes:       []string{"Tacos al pastor", "Pozole", "Chiles en nogada"},
			TypicalDrink: "Agua de horchata",
			MenuPriceUSD: 9,
		},
		Safety: models.SafetyIntelligence{
			RiskLevel:   "Bajo a moderado",
			NoGoZones:   []string{"Zonas aisladas de noche"},
			CommonScams: []string{"Taxis no autorizados", "Cambio de divisas en la calle", "Falsos guías turísticos"},
			HelpPhrase:  "¡Ayuda, por favor!",
		},
	}

	kinds := []struct {
		kind  string
		color string
	}{
		{"turismo", "#8B5CF6"},
		{"comida", "#F97316"},
		{"transporte", "#10B981"},
		{"hotel", "#6B7280"},
		{"turismo", "#8B5CF6"},
		{"comida", "#F97316"},
		{"turismo", ""},
		{"transporte", "#10B981"},
	}
	for i, k := range kinds {
		lat := ap.Latitude + 0.01*float64(i%3) - 0.01
		lng := ap.Longitude + 0.012*float64(i/3) - 0.01
		g.POIs = append(g.POIs, models.PointOfInterest{
			Name:        fmt.Sprintf("%s %s %d", ap.City, k.kind, i+1),
			Kind:        k.kind,
			Coordinates: models.Coordinates{Lat: lat, Lng: lng},
			ColorHex:    k.color,
			Navigation: models.NavigationLinks{
				GoogleMaps: fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%.5f,%.5f", lat, lng),
				Waze:       fmt.Sprintf("https://waze.com/ul?ll=%.5f,%.5f&navigate=yes", lat, lng),
			},
			Comment: "Recomendado por locales",
		})
	}

	if ap.State == "Texas" {
		g.Destination.Country = "Estados Unidos"
		g.Destination.CountryInfo.Language = "Inglés"
		g.Destination.CountryInfo.Currency = "USD"
		g.Destination.Technical.Voltage = "120V"
		g.Destination.Emergency = models.EmergencyNumber{Single: "911", Police: "911", Ambulance: "911"}
		g.Safety.RiskLevel = "Moderado"
	}

	return g
}
