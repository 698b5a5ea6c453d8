// Package soundings fetches upper-air wind soundings and condenses
// them into coarse altitude layers, for publishing alongside the
// guest-facing scraper output.
package soundings

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bookitnow-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const soundingURL = "https://rucsoundings.noaa.gov/get_soundings.cgi?data_source=Op40&latest=latest&n_hrs=18&fcst_len=shortest&airport=KLNS&text=Ascii%20text%20%28GSL%20format%29&hydrometeors=false&start=latest"

const (
	layerSize   = 100
	maxAltitude = 2000
)

// Layer is wind and temperature at one aggregated altitude above the
// surface.
type Layer struct {
	// feet above the reporting surface
	Altitude int `json:"altitude"`
	// mph, converted from the knots in the feed
	WindSpeed     int `json:"windSpeed"`
	WindDirection int `json:"windDirection"`
	// fahrenheit, converted from tenths of a degree celsius
	Temperature int `json:"temperature"`
}

// Sounding is one forecast group from the GSL feed.
type Sounding struct {
	Hour   int     `json:"hour"`
	Day    string  `json:"day"`
	Month  string  `json:"month"`
	Year   string  `json:"year"`
	Layers []Layer `json:"layerData"`
}

var client = resty.New()

func init() {
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "services/soundings")
}

// Fetch downloads the latest Op40 soundings and parses them.
func Fetch(ctx context.Context) ([]Sounding, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(soundingURL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("sounding fetch failed: %s", res.Status())
	}
	return Parse(res.String())
}

// Parse reads GSL-format ASCII soundings. Each forecast group starts
// at a type-9 surface line; data rows are sampled into layers of
// layerSize feet up to maxAltitude above the surface. Identification
// lines carry the forecast hour and date.
func Parse(data string) ([]Sounding, error) {
	var (
		table     []Sounding
		group     Sounding
		newSet    = true
		surface   int
		nextLayer int
		prevLayer int
		hour      int
		day       string
		month     string
		year      string
	)

	for _, rawLine := range strings.Split(data, "\n") {
		line := strings.Fields(strings.TrimSpace(rawLine))
		if len(line) == 0 {
			continue
		}
		first, numeric := parseInt(line[0])

		if !numeric {
			if line[0] == "Op40" && len(line) >= 5 {
				if h, ok := parseInt(line[1]); ok {
					hour = h
					day = line[2]
					month = line[3]
					year = line[4]
				}
			}
			if !newSet {
				newSet = true
				table = append(table, group)
			}
			continue
		}

		// line types 1..3 are station identification headers
		if first <= 3 {
			continue
		}
		if len(line) < 7 || line[2] == "99999" {
			// junk rows with no usable height
			continue
		}

		height, ok := parseInt(line[2])
		if !ok {
			continue
		}

		if first == 9 {
			newSet = false
			nextLayer = 0
			prevLayer = 0
			surface = height
			group = Sounding{
				Hour:  hour,
				Day:   day,
				Month: month,
				Year:  year,
			}
		}

		altitude := height - surface
		if prevLayer <= maxAltitude && altitude >= nextLayer {
			layer, ok := parseLayer(line, altitude)
			if !ok {
				continue
			}
			group.Layers = append(group.Layers, layer)
			prevLayer = altitude
			nextLayer = altitude + layerSize
		}
	}

	if !newSet {
		table = append(table, group)
	}
	return table, nil
}

func parseLayer(line []string, altitude int) (Layer, bool) {
	temp, ok := parseInt(line[3])
	if !ok {
		return Layer{}, false
	}
	direction, ok := parseInt(line[5])
	if !ok {
		return Layer{}, false
	}
	knots, ok := parseInt(line[6])
	if !ok {
		return Layer{}, false
	}
	return Layer{
		Altitude:      altitude,
		WindSpeed:     int(math.Round(float64(knots) * 1.151)),
		WindDirection: direction,
		Temperature:   int(math.Round(float64(temp)/10*1.8 + 32)),
	}, true
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Sunrise returns the soundings forecast around sunrise: one hour
// before through three hours after.
func Sunrise(ctx context.Context, at time.Time) ([]Sounding, error) {
	return window(ctx, at.Hour()-1, at.Hour()+3)
}

// Sunset returns the soundings forecast around sunset: three hours
// before through one hour after, in UTC like the feed's timestamps.
func Sunset(ctx context.Context, at time.Time) ([]Sounding, error) {
	h := at.UTC().Hour()
	return window(ctx, h-3, h+1)
}

func window(ctx context.Context, start, end int) ([]Sounding, error) {
	table, err := Fetch(ctx)
	if err != nil {
		return nil, err
	}
	var out []Sounding
	for _, s := range table {
		if s.Hour >= start && s.Hour <= end {
			out = append(out, s)
		}
	}
	return out, nil
}
