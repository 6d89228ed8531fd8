package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"showing-route-service/internal/adapters/distance"
	"showing-route-service/internal/adapters/repositories"
	"showing-route-service/internal/api/dto"
	"showing-route-service/internal/api/handlers"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 5, 14, 7, 30, 0, 0, time.UTC)
	nineAM   = domain.TimeOfDay{Hour: 9}
)

func mockProvider() *distance.MockDistanceProvider {
	return distance.NewMockDistanceProvider(
		[]distance.MockPoint{
			{Address: "100 Main St", Lon: 0},
			{Address: "200 Oak Ave", Lon: 1},
			{Address: "300 Pine Rd", Lon: 2},
			{Address: "Island", Lon: 50},
		},
		[]distance.MockPair{
			{From: "100 Main St", To: "200 Oak Ave", Minutes: 10},
			{From: "200 Oak Ave", To: "100 Main St", Minutes: 10},
			{From: "200 Oak Ave", To: "300 Pine Rd", Minutes: 15},
			{From: "300 Pine Rd", To: "200 Oak Ave", Minutes: 15},
			{From: "100 Main St", To: "300 Pine Rd", Minutes: 30},
			{From: "300 Pine Rd", To: "100 Main St", Minutes: 30},
		},
	)
}

func newTestRouter(t *testing.T, planner handlers.RoutePlanner, mutate ...func(*RouterConfig)) http.Handler {
	t.Helper()
	if planner == nil {
		p := mockProvider()
		planner = services.NewPlanner(p, p)
	}
	cfg := RouterConfig{
		Logger:    zerolog.Nop(),
		Planner:   planner,
		Schedules: repositories.NewMemoryScheduleRepository(time.Hour),
		Defaults: handlers.RouteDefaults{
			VisitDuration: 30,
			DayStart:      nineAM,
			MaxStops:      3,
			PlanTimeout:   time.Second,
			Location:      time.UTC,
		},
		CORSOrigins: []string{"*"},
		Now:         func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewRouter(cfg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSchedule(t *testing.T, rec *httptest.ResponseRecorder) dto.ScheduleResponse {
	t.Helper()
	var res dto.ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

func clock(h, m int) time.Time {
	return time.Date(2026, 5, 14, h, m, 0, 0, time.UTC)
}

func appointments(res dto.ScheduleResponse) []time.Time {
	out := make([]time.Time, 0, len(res.Stops))
	for _, s := range res.Stops {
		out = append(out, s.AppointmentTime.UTC())
	}
	return out
}

const threeStops = `{"addresses":["100 Main St","200 Oak Ave","300 Pine Rd"],"start_index":0,"date":"2026-05-14"}`

func planSchedule(t *testing.T, h http.Handler) dto.ScheduleResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/routes", threeStops)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeSchedule(t, rec)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Request-Id"), "req_"))
}

func TestPlanRoute(t *testing.T) {
	res := planSchedule(t, newTestRouter(t, nil))

	require.NotEmpty(t, res.ID)
	require.Len(t, res.Stops, 3)
	assert.Equal(t, []time.Time{clock(9, 0), clock(9, 40), clock(10, 25)}, appointments(res))
	assert.Equal(t, 0, res.Stops[0].StopIndex)
	assert.Equal(t, 15, res.Stops[2].TravelTimeFromPrevious)

	assert.Equal(t, 25, res.Totals.TotalDrivingTime)
	assert.Equal(t, 90, res.Totals.TotalShowingTime)
	assert.Equal(t, 115, res.Totals.TotalTime)
	require.NotNil(t, res.Totals.ScheduleEnd)
	assert.True(t, res.Totals.ScheduleEnd.Equal(clock(10, 55)))
}

func TestPlanRouteHonoursDayStartAndStartIndex(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodPost, "/routes",
		`{"addresses":["100 Main St","200 Oak Ave","300 Pine Rd"],"start_index":2,"visit_duration":20,"day_start":"13:30","date":"2026-05-14"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decodeSchedule(t, rec)
	assert.Equal(t, 2, res.Stops[0].StopIndex)
	assert.True(t, res.Stops[0].AppointmentTime.Equal(clock(13, 30)))
	assert.Equal(t, 20, res.Stops[0].VisitDuration)
}

func TestPlanRouteEmptyStopSet(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/routes", `{"addresses":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	res := decodeSchedule(t, rec)
	assert.Empty(t, res.Stops)
	assert.Equal(t, 0, res.Totals.TotalTime)
	assert.Nil(t, res.Totals.ScheduleStart)
}

func TestPlanRouteUnresolvedAddress(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/routes",
		`{"addresses":["100 Main St","Nowhere","Also Nowhere"]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"Nowhere", "Also Nowhere"}, res.Addresses)
}

func TestPlanRouteIncompleteDistanceData(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/routes",
		`{"addresses":["100 Main St","Island"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "incomplete distance data")
}

func TestPlanRouteValidation(t *testing.T) {
	h := newTestRouter(t, nil)

	cases := map[string]string{
		"visit too short": `{"addresses":["100 Main St"],"visit_duration":3}`,
		"visit too long":  `{"addresses":["100 Main St"],"visit_duration":121}`,
		"too many stops":  `{"addresses":["a","b","c","d"]}`,
		"blank address":   `{"addresses":["100 Main St"," "]}`,
		"bad day start":   `{"addresses":["100 Main St"],"day_start":"9am"}`,
		"bad date":        `{"addresses":["100 Main St"],"date":"14/05/2026"}`,
		"unknown field":   `{"addresses":["100 Main St"],"hub":"x"}`,
		"trailing object": `{"addresses":[]}{}`,
		"bad start index": `{"addresses":["100 Main St"],"start_index":4}`,
		"not json at all": `nope`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/routes", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

type stubPlanner func(ctx context.Context, req services.PlanRequest) (*domain.RouteStructure, error)

func (f stubPlanner) Plan(ctx context.Context, req services.PlanRequest) (*domain.RouteStructure, error) {
	return f(ctx, req)
}

func TestPlanRouteUpstreamFailure(t *testing.T) {
	h := newTestRouter(t, stubPlanner(func(context.Context, services.PlanRequest) (*domain.RouteStructure, error) {
		return nil, errors.New("ors: connection refused")
	}))

	rec := do(t, h, http.MethodPost, "/routes", `{"addresses":["100 Main St"]}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPlanRouteTimeoutDiscardsResult(t *testing.T) {
	h := newTestRouter(t, stubPlanner(func(ctx context.Context, _ services.PlanRequest) (*domain.RouteStructure, error) {
		<-ctx.Done()
		return &domain.RouteStructure{}, nil
	}), func(c *RouterConfig) { c.Defaults.PlanTimeout = 10 * time.Millisecond })

	rec := do(t, h, http.MethodPost, "/routes", `{"addresses":["100 Main St"]}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestPlanRouteRateLimited(t *testing.T) {
	h := newTestRouter(t, nil, func(c *RouterConfig) { c.PlanRateLimit = 1 })

	first := do(t, h, http.MethodPost, "/routes", `{"addresses":[]}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(t, h, http.MethodPost, "/routes", `{"addresses":[]}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Other endpoints are not limited.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestGetSchedule(t *testing.T) {
	h := newTestRouter(t, nil)
	planned := planSchedule(t, h)

	rec := do(t, h, http.MethodGet, "/schedules/"+planned.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeSchedule(t, rec)
	assert.Equal(t, planned.ID, got.ID)
	assert.Equal(t, appointments(planned), appointments(got))

	rec = do(t, h, http.MethodGet, "/schedules/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFrozenStopHoldsThroughDurationEdit(t *testing.T) {
	h := newTestRouter(t, nil)
	id := planSchedule(t, h).ID

	rec := do(t, h, http.MethodPost, "/schedules/"+id+"/stops/1/freeze", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeSchedule(t, rec).Stops[1].Frozen)

	rec = do(t, h, http.MethodPut, "/schedules/"+id+"/stops/0/duration", `{"visit_duration":60}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeSchedule(t, rec)
	assert.Equal(t, []time.Time{clock(9, 0), clock(9, 40), clock(10, 25)}, appointments(res))
	assert.Equal(t, 60, res.Stops[0].VisitDuration)

	// Unfreezing does not move anything by itself.
	rec = do(t, h, http.MethodPost, "/schedules/"+id+"/stops/1/freeze", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeSchedule(t, rec).Stops[1].Frozen)
}

func TestDurationEditCascades(t *testing.T) {
	h := newTestRouter(t, nil)
	id := planSchedule(t, h).ID

	rec := do(t, h, http.MethodPut, "/schedules/"+id+"/stops/0/duration", `{"visit_duration":60}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []time.Time{clock(9, 0), clock(10, 10), clock(10, 55)}, appointments(decodeSchedule(t, rec)))
}

func TestTimeEditCascades(t *testing.T) {
	h := newTestRouter(t, nil)
	id := planSchedule(t, h).ID

	rec := do(t, h, http.MethodPut, "/schedules/"+id+"/stops/1/time", `{"appointment_time":"11:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []time.Time{clock(9, 0), clock(11, 0), clock(11, 45)}, appointments(decodeSchedule(t, rec)))

	rec = do(t, h, http.MethodPut, "/schedules/"+id+"/stops/2/time", `{"appointment_time":"2026-05-14T12:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeSchedule(t, rec)
	assert.True(t, res.Stops[2].AppointmentTime.Equal(clock(12, 0)))
	require.NotNil(t, res.Totals.ScheduleEnd)
	assert.True(t, res.Totals.ScheduleEnd.Equal(clock(12, 30)))
}

func TestWallClockEditKeepsStopOnItsOwnDate(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodPost, "/routes",
		`{"addresses":["100 Main St","200 Oak Ave","300 Pine Rd"],"visit_duration":60,"day_start":"22:30","date":"2026-05-14"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	planned := decodeSchedule(t, rec)

	nextDay := func(h, m int) time.Time { return clock(h, m).AddDate(0, 0, 1) }
	require.Equal(t, []time.Time{clock(22, 30), clock(23, 40), nextDay(0, 55)}, appointments(planned))

	rec = do(t, h, http.MethodPut, "/schedules/"+planned.ID+"/stops/2/time", `{"appointment_time":"01:10"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeSchedule(t, rec)
	assert.True(t, res.Stops[2].AppointmentTime.Equal(nextDay(1, 10)), res.Stops[2].AppointmentTime)
	require.NotNil(t, res.Totals.ScheduleStart)
	require.NotNil(t, res.Totals.ScheduleEnd)
	assert.True(t, res.Totals.ScheduleStart.Equal(clock(22, 30)))
	assert.True(t, res.Totals.ScheduleEnd.Equal(nextDay(2, 10)))
	assert.True(t, res.Totals.ScheduleEnd.After(*res.Totals.ScheduleStart))
}

func TestEditValidation(t *testing.T) {
	h := newTestRouter(t, nil)
	id := planSchedule(t, h).ID

	cases := []struct {
		name, method, path, body string
		status                   int
	}{
		{"position out of range", http.MethodPut, "/stops/3/time", `{"appointment_time":"10:00"}`, http.StatusBadRequest},
		{"negative position", http.MethodPost, "/stops/-1/freeze", "", http.StatusBadRequest},
		{"position not a number", http.MethodPost, "/stops/x/freeze", "", http.StatusBadRequest},
		{"bad time", http.MethodPut, "/stops/0/time", `{"appointment_time":"soon"}`, http.StatusBadRequest},
		{"missing time", http.MethodPut, "/stops/0/time", `{}`, http.StatusBadRequest},
		{"missing duration", http.MethodPut, "/stops/0/duration", `{}`, http.StatusBadRequest},
		{"duration out of range", http.MethodPut, "/stops/0/duration", `{"visit_duration":500}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, "/schedules/"+id+tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	// Rejected edits leave the stored schedule alone.
	rec := do(t, h, http.MethodGet, "/schedules/"+id, "")
	assert.Equal(t, []time.Time{clock(9, 0), clock(9, 40), clock(10, 25)}, appointments(decodeSchedule(t, rec)))

	rec = do(t, h, http.MethodPost, "/schedules/unknown/stops/0/freeze", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItinerary(t *testing.T) {
	h := newTestRouter(t, nil)
	id := planSchedule(t, h).ID

	rec := do(t, h, http.MethodGet, "/schedules/"+id+"/itinerary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "1. 9:00 AM\n   100 Main St\n")

	rec = do(t, h, http.MethodGet, "/schedules/"+id+"/itinerary?format=detailed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Generated: May 14, 2026, 7:30:00 AM")

	rec = do(t, h, http.MethodGet, "/schedules/"+id+"/itinerary?format=ical", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))

	rec = do(t, h, http.MethodGet, "/schedules/"+id+"/itinerary?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t, nil, func(c *RouterConfig) { c.CORSOrigins = []string{"https://agent.example"} })

	req := httptest.NewRequest(http.MethodOptions, "/routes", nil)
	req.Header.Set("Origin", "https://agent.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://agent.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req_fixed")
	rec := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, req)

	assert.Equal(t, "req_fixed", rec.Header().Get("X-Request-Id"))
}

func TestRecovererReturns500(t *testing.T) {
	h := recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
