package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"growcore/pkg/domain"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		log  domain.ActionLog
		want string
	}{
		{domain.ActionLog{Type: domain.ActionWater, Amount: "2L"}, "Amount: 2L"},
		{domain.ActionLog{Type: domain.ActionWater, Amount: "2L", Notes: "runoff"}, "Amount: 2L. runoff"},
		{domain.ActionLog{Type: domain.ActionFeed, Amount: "1 tbsp", Nutrients: "Gaia Green 4-4-4"}, "1 tbsp of Gaia Green 4-4-4"},
		{domain.ActionLog{Type: domain.ActionFeed, Amount: "1 tbsp"}, ""},
		{domain.ActionLog{Type: domain.ActionNote, Amount: "ignored", Notes: "topped"}, "topped"},
	}
	for _, tc := range cases {
		if got := Describe(tc.log); got != tc.want {
			t.Fatalf("%+v: got %q want %q", tc.log, got, tc.want)
		}
	}
}

func TestTimelineFilters(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t)
	day := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }
	_, _ = tr.Record(ctx, "p1", Action{Type: domain.ActionWater, At: day(3), Amount: "1L"})
	_, _ = tr.Record(ctx, "p1", Action{Type: domain.ActionFeed, At: day(2), Amount: "5ml", Nutrients: "CalMag"})
	_, _ = tr.Record(ctx, "p1", Action{Type: domain.ActionWater, At: day(1)})

	all, err := tr.Timeline(ctx, "p1", FilterAll)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Watered" || all[1].Description != "5ml of CalMag" {
		t.Fatalf("unexpected timeline %+v", all)
	}
	if all[0].DateLabel != "Jun 9, 2024" || all[1].Badge != "badge-success" {
		t.Fatalf("unexpected entry labels %+v", all[:2])
	}

	water, err := tr.Timeline(ctx, "p1", "water")
	if err != nil || len(water) != 2 {
		t.Fatalf("expected two water entries, got %d err=%v", len(water), err)
	}
	if _, err := tr.Timeline(ctx, "p1", "harvest"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected filter rejection, got %v", err)
	}
	if _, err := tr.Timeline(ctx, "missing", ""); err == nil {
		t.Fatalf("expected not found for unknown plant")
	}
}
