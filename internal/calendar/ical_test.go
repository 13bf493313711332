package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icsFixture(lines ...string) string {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Booking.com//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func TestParse_EventsInFeedOrder(t *testing.T) {
	feed := icsFixture(
		"BEGIN:VEVENT",
		"UID:first",
		"DTSTART;VALUE=DATE:20240301",
		"DTEND;VALUE=DATE:20240305",
		"SUMMARY:Jane Doe",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:second",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240312",
		"SUMMARY:John Roe",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:third",
		"DTSTART;VALUE=DATE:20240401",
		"DTEND;VALUE=DATE:20240402",
		"SUMMARY:CLOSED - Not available",
		"END:VEVENT",
	)

	p := NewParser(0)
	events, err := p.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "first", events[0].UID)
	assert.Equal(t, "second", events[1].UID)
	assert.Equal(t, "third", events[2].UID)
	assert.Equal(t, "Jane Doe", events[0].Summary)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), events[0].End)
}

func TestParse_DateTimeTruncatesToCalendarDate(t *testing.T) {
	withTime := icsFixture(
		"BEGIN:VEVENT",
		"UID:dt",
		"DTSTART:20240310T140000Z",
		"DTEND:20240312T110000Z",
		"SUMMARY:Jane Doe",
		"END:VEVENT",
	)
	bareDate := icsFixture(
		"BEGIN:VEVENT",
		"UID:d",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240312",
		"SUMMARY:Jane Doe",
		"END:VEVENT",
	)

	p := NewParser(0)

	a, err := p.Parse(strings.NewReader(withTime))
	require.NoError(t, err)
	require.Len(t, a, 1)

	b, err := p.Parse(strings.NewReader(bareDate))
	require.NoError(t, err)
	require.Len(t, b, 1)

	assert.Equal(t, b[0].Start, a[0].Start, "date-time start must normalize to the same calendar date")
	assert.Equal(t, b[0].End, a[0].End)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), a[0].Start)
}

func TestParse_MalformedEventSkipped(t *testing.T) {
	feed := icsFixture(
		"BEGIN:VEVENT",
		"UID:good",
		"DTSTART;VALUE=DATE:20240301",
		"DTEND;VALUE=DATE:20240305",
		"SUMMARY:Jane Doe",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:bad",
		"DTSTART:not-a-date",
		"DTEND;VALUE=DATE:20240305",
		"SUMMARY:Broken",
		"END:VEVENT",
	)

	p := NewParser(0)
	events, err := p.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "good", events[0].UID)
}

func TestParse_MissingDatesKeptForMapper(t *testing.T) {
	feed := icsFixture(
		"BEGIN:VEVENT",
		"UID:no-dates",
		"SUMMARY:Jane Doe",
		"END:VEVENT",
	)

	p := NewParser(0)
	events, err := p.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Start.IsZero())
	assert.True(t, events[0].End.IsZero())
}

func TestParse_GarbageInput(t *testing.T) {
	p := NewParser(0)
	_, err := p.Parse(strings.NewReader("this is not a calendar"))
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFetchAndParse(t *testing.T) {
	feed := icsFixture(
		"BEGIN:VEVENT",
		"UID:abc-123",
		"DTSTART;VALUE=DATE:20240301",
		"DTEND;VALUE=DATE:20240305",
		"SUMMARY:Jane Doe",
		"END:VEVENT",
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	p := NewParser(0)
	events, err := p.FetchAndParse(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "abc-123", events[0].UID)
}

func TestFetchAndParse_Non2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewParser(0)
	_, err := p.FetchAndParse(context.Background(), srv.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, srv.URL, fetchErr.URL)
}

func TestFetchAndParse_UnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewParser(time.Second)
	_, err := p.FetchAndParse(context.Background(), url)
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		fails bool
	}{
		{name: "utc date-time", value: "20240310T140000Z", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "local date-time", value: "20240310T235959", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "bare date", value: "20240310", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "iso date", value: "2024-03-10", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "iso date-time", value: "2024-03-10T14:00:00Z", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", value: "not-a-date", fails: true},
		{name: "empty", value: "", fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.value)
			if tt.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
