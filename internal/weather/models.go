package weather

// Location is the location block shared by current and forecast responses.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TzID      string  `json:"tz_id"`
	Localtime string  `json:"localtime"`
}

// Condition is the textual weather condition.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// Current holds the observed conditions returned by /current.json.
type Current struct {
	LastUpdated string    `json:"last_updated"`
	TempC       float64   `json:"temp_c"`
	TempF       float64   `json:"temp_f"`
	FeelslikeC  float64   `json:"feelslike_c"`
	FeelslikeF  float64   `json:"feelslike_f"`
	Humidity    float64   `json:"humidity"`
	WindKph     float64   `json:"wind_kph"`
	WindMph     float64   `json:"wind_mph"`
	WindDir     string    `json:"wind_dir"`
	Condition   Condition `json:"condition"`
}

// CurrentResponse is the /current.json payload.
// Current is nil when the upstream omitted the block.
type CurrentResponse struct {
	Location Location `json:"location"`
	Current  *Current `json:"current"`
}

// DaySummary is the aggregate block of one forecast day.
type DaySummary struct {
	MaxtempC  float64   `json:"maxtemp_c"`
	MintempC  float64   `json:"mintemp_c"`
	AvgtempC  float64   `json:"avgtemp_c"`
	Condition Condition `json:"condition"`
}

// ForecastDay is one entry of forecast.forecastday.
type ForecastDay struct {
	Date string     `json:"date"`
	Day  DaySummary `json:"day"`
}

// Forecast is the forecast block of /forecast.json.
type Forecast struct {
	ForecastDay []ForecastDay `json:"forecastday"`
}

// ForecastResponse is the /forecast.json payload.
// Current and Forecast are nil when the upstream omitted them.
type ForecastResponse struct {
	Location Location  `json:"location"`
	Current  *Current  `json:"current"`
	Forecast *Forecast `json:"forecast"`
}

// SearchResult is one match returned by /search.json.
type SearchResult struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	URL     string  `json:"url"`
}
