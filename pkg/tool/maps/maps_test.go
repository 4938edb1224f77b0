package maps_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/tool/maps"
	"github.com/m-mizutani/gt"
)

func TestBestRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Path, "/directions/json")
		gt.Equal(t, r.URL.Query().Get("origin"), "Koramangala")
		gt.Equal(t, r.URL.Query().Get("destination"), "Whitefield")
		gt.Equal(t, r.URL.Query().Get("departure_time"), "now")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"summary": "Outer Ring Road",
				"legs": [{
					"distance": {"text": "18.2 km"},
					"duration": {"text": "45 mins"},
					"duration_in_traffic": {"text": "1 hour 10 mins"},
					"start_address": "Koramangala, Bengaluru",
					"end_address": "Whitefield, Bengaluru",
					"steps": [
						{"html_instructions": "Head north", "distance": {"text": "500 m"}, "duration": {"text": "2 mins"}}
					]
				}]
			}]
		}`))
	}))
	defer srv.Close()

	x := maps.New(maps.WithBaseURL(srv.URL), maps.WithAPIKey("test-key"))

	route, err := x.BestRoute(context.Background(), "Koramangala", "Whitefield", "")
	gt.NoError(t, err)
	gt.Equal(t, route.Summary, "Outer Ring Road")
	gt.Equal(t, route.Duration, "45 mins")
	gt.Equal(t, route.DurationInTraffic, "1 hour 10 mins")
	gt.True(t, route.HasTrafficDelay())
	gt.A(t, route.Steps).Length(1)
}

func TestBestRouteNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "routes": []}`))
	}))
	defer srv.Close()

	x := maps.New(maps.WithBaseURL(srv.URL), maps.WithAPIKey("test-key"))

	_, err := x.BestRoute(context.Background(), "A", "B", "driving")
	gt.Error(t, err)
}

func TestFindPlacesSortsByRating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Path, "/place/textsearch/json")
		gt.S(t, r.URL.Query().Get("query")).Contains("must visit")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"name": "Cubbon Park", "rating": 4.5, "formatted_address": "Kasturba Rd", "place_id": "p1", "types": ["park"]},
				{"name": "Lalbagh", "rating": 4.7, "formatted_address": "Mavalli", "place_id": "p2", "types": ["park"]},
				{"name": "Some Mall", "rating": 3.9, "formatted_address": "MG Rd", "place_id": "p3", "types": ["shopping_mall"]}
			]
		}`))
	}))
	defer srv.Close()

	x := maps.New(maps.WithBaseURL(srv.URL), maps.WithAPIKey("test-key"))

	places, err := x.FindPlaces(context.Background(), "Bangalore", 2)
	gt.NoError(t, err)
	gt.A(t, places).Length(2)
	gt.Equal(t, places[0].Name, "Lalbagh")
	gt.Equal(t, places[1].Name, "Cubbon Park")
}
