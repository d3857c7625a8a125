package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"immoportal/internal/models/db_models"
	"immoportal/internal/models/request_models"
	"immoportal/pkg/utils"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	listing := func(city string, price *int, typ *string) db_models.PublicProperty {
		return db_models.PublicProperty{ID: uuid.New(), Title: "x", City: city, Price: price, Type: typ}
	}

	tests := []struct {
		name     string
		criteria *db_models.SearchCriteria
		listing  db_models.PublicProperty
		want     bool
	}{
		{"no criteria", nil, listing("Lyon", ptr(5000), nil), true},
		{"empty criteria", &db_models.SearchCriteria{}, listing("Lyon", ptr(5000), nil), true},
		{"city ignores case and spaces", &db_models.SearchCriteria{City: ptr(" paris ")}, listing("Paris", nil, nil), true},
		{"other city", &db_models.SearchCriteria{City: ptr("Paris")}, listing("Lyon", nil, nil), false},
		{"blank city is unconstrained", &db_models.SearchCriteria{City: ptr("  ")}, listing("Lyon", nil, nil), true},
		{"missing price passes max", &db_models.SearchCriteria{MaxPrice: ptr(1000)}, listing("Paris", nil, nil), true},
		{"price above max", &db_models.SearchCriteria{MaxPrice: ptr(1000)}, listing("Paris", ptr(1200), nil), false},
		{"price at max", &db_models.SearchCriteria{MaxPrice: ptr(1000)}, listing("Paris", ptr(1000), nil), true},
		{"price below min", &db_models.SearchCriteria{MinPrice: ptr(800)}, listing("Paris", ptr(700), nil), false},
		{"price at min", &db_models.SearchCriteria{MinPrice: ptr(800)}, listing("Paris", ptr(800), nil), true},
		{"type listed", &db_models.SearchCriteria{PropertyTypes: []string{"studio", "t2"}}, listing("Paris", nil, ptr("T2")), true},
		{"type not listed", &db_models.SearchCriteria{PropertyTypes: []string{"studio"}}, listing("Paris", nil, ptr("house")), false},
		{"listing without type passes", &db_models.SearchCriteria{PropertyTypes: []string{"studio"}}, listing("Paris", nil, nil), true},
		{"empty type list is unconstrained", &db_models.SearchCriteria{PropertyTypes: []string{}}, listing("Paris", nil, ptr("house")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Matches(tt.criteria, tt.listing); got != tt.want {
				t.Fatalf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesSurfaceAndRooms(t *testing.T) {
	t.Parallel()

	c := &db_models.SearchCriteria{MinSurface: ptr(30), MinRooms: ptr(2)}
	cases := []struct {
		surface, rooms *int
		want           bool
	}{
		{ptr(30), ptr(2), true},
		{ptr(29), ptr(3), false},
		{ptr(45), ptr(1), false},
		{nil, nil, true},
	}
	for _, tc := range cases {
		l := db_models.PublicProperty{City: "Paris", Surface: tc.surface, Rooms: tc.rooms}
		if got := Matches(c, l); got != tc.want {
			t.Errorf("surface=%v rooms=%v: got %v, want %v", tc.surface, tc.rooms, got, tc.want)
		}
	}
}

func TestNormalizeTypes(t *testing.T) {
	t.Parallel()

	got := NormalizeTypes([]string{" Studio, T2 ", "", "t2", "Maison,", " , "})
	want := []string{"studio", "t2", "maison"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTypes = %v, want %v", got, want)
	}
	if got := NormalizeTypes(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMatchedListings(t *testing.T) {
	t.Parallel()

	p := newPortal("2025-03-10")
	ctx := context.Background()
	client := p.activeClient("Alice")

	oldParis := p.props.add(db_models.Property{Title: "Old Paris", City: "Paris", Price: ptr(900)})
	p.props.add(db_models.Property{Title: "Pricey", City: "Paris", Price: ptr(1200)})
	p.props.add(db_models.Property{Title: "Lyon", City: "Lyon", Price: ptr(500)})
	p.props.add(db_models.Property{Title: "Rented", City: "Paris", Price: ptr(700), Status: db_models.PropertyRented})
	newParis := p.props.add(db_models.Property{Title: "New Paris", City: "paris", OwnerPhone: ptr("+33 6 00 00 00 00")})

	_ = p.criteria.Upsert(ctx, &db_models.SearchCriteria{ClientID: client.ID, City: ptr("Paris"), MaxPrice: ptr(1000)})

	resp, err := p.matcher.MatchedListings(ctx, client)
	if err != nil {
		t.Fatalf("MatchedListings: %v", err)
	}
	if !resp.Active {
		t.Fatal("expected active subscription")
	}
	var ids []string
	for _, l := range resp.Listings {
		ids = append(ids, l.ID)
	}
	want := []string{newParis.String(), oldParis.String()}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("listings = %v, want newest-first %v", ids, want)
	}
	if resp.Criteria == nil || resp.Criteria.MaxPrice == nil || *resp.Criteria.MaxPrice != 1000 {
		t.Fatalf("criteria not echoed: %+v", resp.Criteria)
	}

	again, _ := p.matcher.MatchedListings(ctx, client)
	if !reflect.DeepEqual(again.Listings, resp.Listings) {
		t.Fatal("result not stable across calls")
	}
}

func TestMatchedListingsWithoutCriteriaReturnsAllActive(t *testing.T) {
	t.Parallel()

	p := newPortal("2025-03-10")
	client := p.activeClient("Bob")
	p.props.add(db_models.Property{Title: "A", City: "Paris"})
	p.props.add(db_models.Property{Title: "B", City: "Nice"})
	p.props.add(db_models.Property{Title: "C", City: "Nice", Status: db_models.PropertyArchived})

	resp, err := p.matcher.MatchedListings(context.Background(), client)
	if err != nil {
		t.Fatalf("MatchedListings: %v", err)
	}
	if len(resp.Listings) != 2 {
		t.Fatalf("expected 2 active listings, got %d", len(resp.Listings))
	}
}

func TestMatchedListingsInactiveSubscription(t *testing.T) {
	t.Parallel()

	p := newPortal("2025-03-10")
	id := p.accounts.add(db_models.RoleClient, "late@example.com", "Late")
	p.subs.grant(id, db_models.SubStatusActive, "2025-03-09")
	p.props.add(db_models.Property{Title: "A", City: "Paris"})

	resp, err := p.matcher.MatchedListings(context.Background(), p.principal(id))
	if err != nil {
		t.Fatalf("MatchedListings: %v", err)
	}
	if resp.Active || len(resp.Listings) != 0 || resp.Criteria != nil {
		t.Fatalf("expected empty inactive response, got %+v", resp)
	}
}

func TestMatchedListingsRequiresClient(t *testing.T) {
	t.Parallel()

	p := newPortal("2025-03-10")
	if _, err := p.matcher.MatchedListings(context.Background(), p.agent()); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpsertCriteria(t *testing.T) {
	t.Parallel()

	p := newPortal("2025-03-10")
	ctx := context.Background()
	agent := p.agent()
	client := p.activeClient("Alice")

	resp, err := p.matcher.Upsert(ctx, agent, client.ID, request_models.UpsertCriteriaRequest{
		City:          " Paris ",
		MaxPrice:      ptr(1500),
		PropertyTypes: []string{"Studio, T2"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if resp.City == nil || *resp.City != "Paris" || !reflect.DeepEqual(resp.PropertyTypes, []string{"studio", "t2"}) {
		t.Fatalf("unexpected criteria %+v", resp)
	}

	resp, err = p.matcher.Upsert(ctx, agent, client.ID, request_models.UpsertCriteriaRequest{})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if resp.City != nil || resp.MaxPrice != nil || len(resp.PropertyTypes) != 0 {
		t.Fatalf("expected cleared criteria, got %+v", resp)
	}

	got, err := p.matcher.Get(ctx, agent, client.ID)
	if err != nil || got.City != nil {
		t.Fatalf("Get after clear: %+v, %v", got, err)
	}

	_, err = p.matcher.Upsert(ctx, agent, client.ID, request_models.UpsertCriteriaRequest{MinPrice: ptr(2000), MaxPrice: ptr(1000)})
	var ve *utils.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for min > max, got %v", err)
	}

	if _, err := p.matcher.Upsert(ctx, agent, agent.ID, request_models.UpsertCriteriaRequest{}); !errors.Is(err, utils.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound for a non-client, got %v", err)
	}
	if _, err := p.matcher.Upsert(ctx, client, client.ID, request_models.UpsertCriteriaRequest{}); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a client, got %v", err)
	}
}
