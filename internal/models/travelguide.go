package models

import (
	"slices"
	"strings"
	"time"

	"github.com/skypies/geo"
)

// TravelGuideRequest is the body of POST /api/v1/travel-guide.
type TravelGuideRequest struct {
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	TravelDate string `json:"travelDate"`
}

// TravelDateLayout formats travel dates as DD-MM.
const TravelDateLayout = "02-01"

// TravelGuide is the arrival guide generated for a destination.
type TravelGuide struct {
	Destination Destination        `json:"destino"`
	Climate     ClimateAnalysis    `json:"analisis_climatico_historico"`
	Transport   []TransportOption  `json:"logistica_transporte_aeropuerto"`
	POIs        []PointOfInterest  `json:"puntos_interes_georreferenciados"`
	Food        SeasonalFood       `json:"gastronomia_estacional"`
	Safety      SafetyIntelligence `json:"inteligencia_seguridad"`
}

// Destination describes the arrival city.
type Destination struct {
	Airport     string          `json:"aeropuerto"`
	City        string          `json:"ciudad"`
	Country     string          `json:"pais"`
	CountryInfo CountryInfo     `json:"info_pais"`
	Technical   TechnicalInfo   `json:"tecnico"`
	Emergency   EmergencyNumber `json:"emergencias"`
}

type CountryInfo struct {
	Language string `json:"idioma"`
	Currency string `json:"moneda_codigo"`
	TipRate  string `json:"tasa_propina_sugerida"`
	ESimURL  string `json:"e_sim_recomendada_url"`
}

type TechnicalInfo struct {
	Plugs     []string `json:"enchufes"`
	Voltage   string   `json:"voltaje"`
	Frequency string   `json:"frecuencia"`
}

// PowerSummary returns "voltage/first plug", or just the voltage without plugs.
func (t TechnicalInfo) PowerSummary() string {
	if len(t.Plugs) == 0 {
		return t.Voltage
	}
	return t.Voltage + "/" + t.Plugs[0]
}

type EmergencyNumber struct {
	Single    string `json:"numero_unico"`
	Police    string `json:"policia"`
	Ambulance string `json:"ambulancia"`
}

type ClimateAnalysis struct {
	Summary   string         `json:"resumen"`
	TempRange string         `json:"temp_rango"`
	Risks     string         `json:"riesgos_meteorologicos"`
	Suitcase  []SuitcaseItem `json:"maleta_inteligente"`
}

// SuitcaseItem is a packing suggestion.
type SuitcaseItem struct {
	Item       string `json:"prenda"`
	Priority   string `json:"prioridad"`
	SearchLink string `json:"link_google_search"`
}

// HighPriority reports whether the item is marked "Alta".
func (s SuitcaseItem) HighPriority() bool {
	return s.Priority == "Alta"
}

type TransportOption struct {
	Mode          string  `json:"medio"`
	CostUSD       float64 `json:"costo_estimado_usd"`
	Minutes       int     `json:"tiempo_minutos"`
	Schedule      string  `json:"horario_recomendado"`
	PaymentMethod string  `json:"metodo_pago"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Latlong returns the point as a geo position.
func (c Coordinates) Latlong() geo.Latlong {
	return geo.Latlong{Lat: c.Lat, Long: c.Lng}
}

type NavigationLinks struct {
	GoogleMaps string `json:"gmaps_nav"`
	Waze       string `json:"waze_nav"`
}

// PointOfInterest is a georeferenced place near the destination.
type PointOfInterest struct {
	Name        string          `json:"nombre"`
	Kind        string          `json:"tipo"`
	Coordinates Coordinates     `json:"coordenadas"`
	ColorHex    string          `json:"color_hex"`
	Navigation  NavigationLinks `json:"navegacion"`
	Comment     string          `json:"comentario_experto"`
}

type SeasonalFood struct {
	Dishes       []string `json:"platos_sugeridos_fecha"`
	TypicalDrink string   `json:"bebida_tipica"`
	MenuPriceUSD float64  `json:"precio_medio_menu_usd"`
}

type SafetyIntelligence struct {
	RiskLevel   string   `json:"nivel_riesgo"`
	NoGoZones   []string `json:"zonas_no_go"`
	CommonScams []string `json:"estafas_comunes_activas"`
	HelpPhrase  string   `json:"frase_auxilio_local"`
}

// LowRisk reports whether the risk level mentions "Bajo".
func (s SafetyIntelligence) LowRisk() bool {
	return strings.Contains(s.RiskLevel, "Bajo")
}

const (
	maxScams = 2
	maxPOIs  = 6
)

// TopScams returns at most the first two common scams.
func (s SafetyIntelligence) TopScams() []string {
	if len(s.CommonScams) <= maxScams {
		return s.CommonScams
	}
	return s.CommonScams[:maxScams]
}

// POIKinds are the point-of-interest types shown to the traveller.
var POIKinds = []string{"turismo", "comida", "transporte"}

// FeaturedPOIs returns up to six points whose type is one of POIKinds, in order.
func (g TravelGuide) FeaturedPOIs() []PointOfInterest {
	out := make([]PointOfInterest, 0, maxPOIs)
	for _, p := range g.POIs {
		if !slices.Contains(POIKinds, p.Kind) {
			continue
		}
		out = append(out, p)
		if len(out) == maxPOIs {
			break
		}
	}
	return out
}

// NewTravelGuideRequest builds a guide request for a destination airport and date.
func NewTravelGuideRequest(dest Airport, travel time.Time) TravelGuideRequest {
	return TravelGuideRequest{
		Latitude:   formatCoord(dest.Latitude),
		Longitude:  formatCoord(dest.Longitude),
		TravelDate: travel.Format(TravelDateLayout),
	}
}
